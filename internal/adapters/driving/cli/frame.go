package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	cachemem "github.com/loomworks/loom-cli/internal/adapters/driven/cache/memory"
	"github.com/loomworks/loom-cli/internal/adapters/driven/clock"
	"github.com/loomworks/loom-cli/internal/config"
	"github.com/loomworks/loom-cli/internal/core/ports/driven"
	"github.com/loomworks/loom-cli/internal/core/services"
	"github.com/loomworks/loom-cli/internal/protocol/frame"
)

var (
	framePairs  []string
	frameBinary bool

	conversationProject string
	conversationEntries []string
)

// conversationClock overrides the config-derived clock; tests pin it.
var conversationClock driven.Clock

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Pack and unpack canonical frames",
	Long: `Works with the canonical frame wire format: a key-sorted header plus
ordered payload segments, delimited by ASCII separator characters. Binary
payloads are embedded with the base-3 trit encoding.`,
}

var framePackCmd = &cobra.Command{
	Use:   "pack [segment...]",
	Short: "Serialize header pairs and payload segments to wire form",
	RunE:  runFramePack,
}

var frameUnpackCmd = &cobra.Command{
	Use:   "unpack",
	Short: "Parse wire form from stdin and print its parts",
	Args:  cobra.NoArgs,
	RunE:  runFrameUnpack,
}

var frameConversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Pack conversation state into wire form",
	Long: `Collects conversation entries into a per-project cache and emits the
resulting state as a canonical frame, one payload segment per entry
ordered by (block, key).`,
	Args: cobra.NoArgs,
	RunE: runFrameConversation,
}

func init() {
	framePackCmd.Flags().StringArrayVar(&framePairs, "set", nil, "header pair as key=value (repeatable)")
	framePackCmd.Flags().BoolVar(&frameBinary, "binary", false, "trit-encode each segment")
	frameUnpackCmd.Flags().BoolVar(&frameBinary, "binary", false, "trit-decode each segment")
	frameConversationCmd.Flags().StringVar(&conversationProject, "project", "default", "project the entries belong to")
	frameConversationCmd.Flags().StringArrayVar(&conversationEntries, "entry", nil, "entry as block:key=value (repeatable)")

	frameCmd.AddCommand(framePackCmd)
	frameCmd.AddCommand(frameUnpackCmd)
	frameCmd.AddCommand(frameConversationCmd)
	rootCmd.AddCommand(frameCmd)
}

func runFramePack(cmd *cobra.Command, args []string) error {
	var f frame.Frame

	for _, pair := range framePairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("header pair %q is not key=value", pair)
		}
		f.Set(key, value)
	}

	for _, segment := range args {
		if frameBinary {
			f.AppendBinary([]byte(segment))
		} else {
			f.Append(segment)
		}
	}

	text, err := frame.Serialize(f)
	if err != nil {
		return fmt.Errorf("serialize frame: %w", err)
	}

	cmd.Println(text)
	return nil
}

func runFrameConversation(cmd *cobra.Command, _ []string) error {
	clk := conversationClock
	if clk == nil {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		clk = clock.FromConfig(cfg)
	}

	cache := cachemem.New(clk)
	for _, raw := range conversationEntries {
		location, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("entry %q is not block:key=value", raw)
		}
		block, key, ok := strings.Cut(location, ":")
		if !ok {
			return fmt.Errorf("entry %q is not block:key=value", raw)
		}
		cache.SetBlock(conversationProject, block, key, value)
	}

	text, err := services.BuildConversationFrame(conversationProject, cache.Entries(conversationProject))
	if err != nil {
		return err
	}

	cmd.Println(text)
	return nil
}

func runFrameUnpack(cmd *cobra.Command, _ []string) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	f, err := frame.Parse(strings.TrimRight(string(data), "\n"))
	if err != nil {
		return err
	}

	for _, p := range f.Header {
		cmd.Printf("%s=%s\n", p.Key, p.Value)
	}
	for i, segment := range f.Payload {
		if frameBinary {
			decoded, err := f.Binary(i)
			if err != nil {
				return err
			}
			segment = string(decoded)
		}
		cmd.Printf("[%d] %s\n", i, segment)
	}

	return nil
}
