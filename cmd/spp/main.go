// Spp downloads CAIE past papers from the papacambridge archive.
//
// Run without arguments it asks for the board, subject, year, session and
// document type and builds the paper identifier from the answers. Given an
// identifier such as 0625_s19_qp_11 it downloads that paper directly.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
