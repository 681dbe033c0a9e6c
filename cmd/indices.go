package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createIndexCmd = &cobra.Command{
		Use:   "create-index [NAME]",
		Short: "Create an index with the knowledge-base mappings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCreateIndex,
	}
	deleteIndexCmd = &cobra.Command{
		Use:   "delete-index [NAME]",
		Short: "Delete an index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDeleteIndex,
	}
)

func runCreateIndex(cmd *cobra.Command, args []string) error {
	index := targetIndex(args)
	fmt.Printf("======> create_index(%s)\n", index)

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	ok, err := client.CreateIndex(cmd.Context(), index)
	if err != nil {
		return err
	}
	fmt.Printf("Created index %s: %t\n", index, ok)
	return nil
}

func runDeleteIndex(cmd *cobra.Command, args []string) error {
	index := targetIndex(args)
	fmt.Printf("======> delete_index(%s)\n", index)

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	ok, err := client.DeleteIndex(cmd.Context(), index)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted index %s: %t\n", index, ok)
	return nil
}
