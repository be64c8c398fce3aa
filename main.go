package main

import "github.com/zkpipe/stark-verifier-input/cmd"

func main() {
	cmd.Execute()
}
