package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	mpb "github.com/vbauerster/mpb/v8"
	decor "github.com/vbauerster/mpb/v8/decor"
)

var (
	OutputPath string
	Limit      int
	fetchCmd   = &cobra.Command{
		Use:   "export",
		Short: "Export the entries of an index to a dump file",
		RunE:  runFetch,
	}
)

func init() {
	fetchCmd.Flags().StringVarP(&OutputPath, "output", "o",
		"", "output dump file path")
	fetchCmd.Flags().IntVarP(&Limit, "limit", "l", 10000, "max number of entries")
	fetchCmd.MarkFlagRequired("output")
}

func newBar(p *mpb.Progress, name string, errMsg string) *mpb.Bar {
	return p.AddBar(0,
		mpb.BarFillerClearOnComplete(),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DSyncSpaceR}),
			decor.CountersNoUnit("%d/%d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnAbort(
				decor.OnComplete(decor.AverageSpeed(0, " %.f doc/s"), "done"),
				errMsg,
			),
		),
	)
}

func runFetch(cmd *cobra.Command, args []string) error {

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	index := targetIndex(nil)
	f, err := os.Create(OutputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var wg sync.WaitGroup
	p := mpb.New(
		mpb.WithWaitGroup(&wg),
		mpb.WithWidth(30),
	)
	wg.Add(1)

	bar := newBar(p, "\033[38;2;120;180;255m"+index+"\033[39m  ",
		"error while exporting")

	var nb int
	go func() {
		defer wg.Done()
		nb, err = client.FetchEntries(cmd.Context(), f, bar, index, Limit)
		if err != nil {
			bar.Abort(false)
		}
	}()

	p.Wait()

	if err != nil {
		return err
	}
	fmt.Printf("Exported %d entries of %s to %s\n", nb, index, OutputPath)
	return nil
}
