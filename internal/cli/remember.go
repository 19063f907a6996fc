package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draftplane/recall/internal/memstore"
)

var (
	rememberContent string
	rememberFile    string
)

var rememberCmd = &cobra.Command{
	Use:   "remember <episode|pattern|skill> <topic-id>",
	Short: "Store a full memory record for a topic",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemember,
}

func init() {
	rememberCmd.Flags().StringVar(&rememberContent, "content", "", "record content")
	rememberCmd.Flags().StringVar(&rememberFile, "file", "", "read record content from a file")
}

func runRemember(cmd *cobra.Command, args []string) error {
	kind := memstore.Kind(strings.ToLower(args[0]))
	switch kind {
	case memstore.KindEpisode, memstore.KindPattern, memstore.KindSkill:
	default:
		return fmt.Errorf("unknown kind %q (want episode, pattern or skill)", args[0])
	}

	content := rememberContent
	if rememberFile != "" {
		data, err := os.ReadFile(rememberFile)
		if err != nil {
			return fmt.Errorf("read content file: %w", err)
		}
		content = string(data)
	}
	if content == "" {
		return fmt.Errorf("record content required (--content or --file)")
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.db == nil {
		return fmt.Errorf("full memory store unavailable")
	}
	if err := rt.db.Put(cmd.Context(), kind, args[1], content, 0); err != nil {
		return err
	}
	fmt.Printf("stored %s for topic %s\n", kind, args[1])
	return nil
}
