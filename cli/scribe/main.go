package main

import (
	"os"

	scribecmder "github.com/quillhq/scribe/cmd/scribe"
)

func main() {
	cmd := scribecmder.NewScribeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
