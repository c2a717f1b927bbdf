package main

import "github.com/cmmoran/typecompose/cmd"

func main() {
	cmd.Execute()
}
