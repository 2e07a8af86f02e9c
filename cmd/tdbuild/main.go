package main

import "tdbuild/internal/cli"

func main() {
	cli.Execute()
}
