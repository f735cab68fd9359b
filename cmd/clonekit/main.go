package main

import "github.com/jvs-project/clonekit/internal/cli"

func main() {
	cli.Execute()
}
