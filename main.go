package main

import "github.com/jsphweid/midicritic/cmd"

func main() {
	cmd.Execute()
}
