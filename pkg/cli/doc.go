/*
Package cli provides command-line interface utilities for the luciuz command.

Output Formatting:

Commands print results as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	fields := cli.Fields{}.Add("domain", "luciuz.com")
	if err := formatter.FormatTo(os.Stdout, fields); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
