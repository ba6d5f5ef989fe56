package main

import "github.com/veedubyou/chord-paper-scribe/src/scribe/cmd"

func main() {
	cmd.Execute()
}
