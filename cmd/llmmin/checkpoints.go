package main

import (
	"fmt"

	"github.com/marv1nnnnn/llmmin"
)

// Run executes the checkpoints list command.
func (c *CheckpointsListCmd) Run(deps *Dependencies) error {
	infos, err := deps.CheckpointAdmin.ListCheckpoints(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmmin.ErrorMessage(err))
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintln(deps.Stdout, "No checkpoints.")
		return nil
	}

	for _, info := range infos {
		fmt.Fprintf(deps.Stdout, "%s\tchunk %d\t%d records\t%s\n",
			info.DocumentID, info.ChunkIndex, info.Records,
			info.SavedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Run executes the checkpoints clear command.
func (c *CheckpointsClearCmd) Run(deps *Dependencies) error {
	if err := deps.Checkpoints.Clear(deps.Ctx, c.Document); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmmin.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleared checkpoint for %q\n", c.Document)
	return nil
}
