// Package main implements docjsonctl, a command-line front end exercising
// the store package's full operation surface against a document file.
package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mcvoid/docjson/cache"
)

// appState is shared by every subcommand's RunE: the document file path,
// a process-wide cache (sized from config), and a mutex reasserting the
// single-threaded discipline the core assumes at the one place true
// concurrency could appear (overlapping invocations against the same
// cache, were this run as a long-lived server instead of one-shot CLI
// invocations).
type appState struct {
	mu    sync.Mutex
	cache *cache.Cache
	cfg   *Config
}

// NewRootCmd builds the docjsonctl root command with every subcommand
// registered.
func NewRootCmd() *cobra.Command {
	state := &appState{}
	var configPath string

	root := &cobra.Command{
		Use:           "docjsonctl",
		Short:         "docjsonctl - inspect and mutate a JSON document store",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			state.cfg = cfg
			state.cache = cache.New(cfg.Cache.MaxEntries, cfg.Cache.MaxBytes, cfg.Cache.MinSize)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().String("file", "", "path to the JSON document file")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		newSetCmd(state),
		newGetCmd(state),
		newDelCmd(state),
		newNumIncrByCmd(state),
		newNumMultiplyByCmd(state),
		newStrAppendCmd(state),
		newArrAppendCmd(state),
		newArrInsertCmd(state),
		newArrTrimCmd(state),
		newArrLenCmd(state),
		newObjKeysCmd(state),
		newObjLenCmd(state),
		newTypeCmd(state),
		newLenCmd(state),
		newDebugCmd(state),
		newSnapshotCmd(state),
		newRespCmd(state),
	)
	return root
}

// traceID is attached to every subcommand invocation's debug/trace output.
func traceID() string { return uuid.New().String() }
