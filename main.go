package main

import (
	"os"

	"github.com/scan-io-git/checkview/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
