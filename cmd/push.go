package cmd

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"frafos.com/kbsearch/es"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	mpb "github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"
)

var (
	PushInputPath  string
	keepOldIndices bool
	pushCmd        = &cobra.Command{
		Use:   "index",
		Short: "Bulk index knowledge-base entries from dump files",
		RunE:  runPush,
	}
)

func init() {
	pushCmd.Flags().StringVarP(&PushInputPath, "input", "i",
		"", "input dump file or directory of dump files")
	pushCmd.Flags().BoolVarP(&keepOldIndices, "keep", "k",
		false, "do not wipe old indices with the same names")
	pushCmd.MarkFlagRequired("input")
}

// get dump files from a directory, or the input file itself
func ReadDumps(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}

	var dumps []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		dumps = append(dumps, path.Join(input, entry.Name()))
	}
	if len(dumps) == 0 {
		return nil, errors.Errorf("no dump files in %s", input)
	}
	return dumps, nil
}

// options for one dump: a single file goes to the selected index,
// files of a directory go to the index named in each dump
func pushOptions(dump string, single bool) es.PushOptions {
	opts := es.PushOptions{
		Fallback: filepath.Base(dump),
		Keep:     keepOldIndices,
	}
	if single {
		opts.Index = targetIndex(nil)
	}
	return opts
}

// open all dumps up front so a missing one stops the push before it starts
func openDumps(dumps []string) ([]*os.File, error) {
	files := make([]*os.File, 0, len(dumps))
	for _, dump := range dumps {
		f, err := os.Open(dump)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func runPush(cmd *cobra.Command, args []string) error {
	dumps, err := ReadDumps(PushInputPath)
	if err != nil {
		return err
	}

	files, err := openDumps(dumps)
	if err != nil {
		return err
	}

	// create an es client bound to the domain
	client, _, err := newClient(cmd.Context())
	if err != nil {
		for _, f := range files {
			f.Close()
		}
		return err
	}

	var wg sync.WaitGroup
	p := mpb.New(
		mpb.WithWaitGroup(&wg),
		mpb.WithWidth(30),
	)
	wg.Add(len(dumps))

	stats := make([]es.PushStats, len(dumps))
	errs := make([]error, len(dumps))

	// push entries for all dumps
	for i, dump := range dumps {
		opts := pushOptions(dump, len(dumps) == 1)
		opts.Bar = newBar(p, "\033[38;2;120;180;255m"+filepath.Base(dump)+"\033[39m  ",
			"error while indexing")

		go func(i int, f *os.File, opts es.PushOptions) {
			defer wg.Done()
			defer f.Close()
			stats[i], errs[i] = client.IndexEntries(cmd.Context(), f, opts)
			if errs[i] != nil {
				opts.Bar.Abort(false)
			}
		}(i, files[i], opts)
	}

	p.Wait()

	var failed error
	for i, s := range stats {
		if errs[i] != nil {
			logger.Error("index failed", zap.String("dump", dumps[i]), zap.Error(errs[i]))
			if failed == nil {
				failed = errors.Wrapf(errs[i], "index %s", dumps[i])
			}
			continue
		}
		fmt.Printf("Indexed %d entries into %s\n", s.Indexed, s.Index)
	}
	return failed
}
