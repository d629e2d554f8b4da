package main

import "github.com/timvw/ollama-boolean/cmd"

func main() {
	cmd.Execute()
}
