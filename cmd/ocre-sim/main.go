package main

import "github.com/project-ocre/ocre-sdk-go/cli"

func main() {
	cli.Execute()
}
