package main

import "github.com/gaurav-prasanna/notionpipe/cmd"

func main() {
	cmd.Execute()
}
