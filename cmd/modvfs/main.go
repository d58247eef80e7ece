package main

import (
	"os"

	"github.com/modvfs/modvfs/pkg/hook"
)

func main() {
	err := Execute()
	if err == nil || hook.StartedViaVFS(err) {
		return
	}
	os.Exit(1)
}
