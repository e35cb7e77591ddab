package main

import (
	"fmt"
	"os"

	"github.com/oy3o/bincodec/internal/cmdline"
)

func main() {
	ctl := cmdline.New()

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintln(ctl.ErrWriter, err)
		os.Exit(1)
	}
}
