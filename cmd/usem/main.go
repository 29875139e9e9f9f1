package main

import "usem/internal/cli"

func main() {
	cli.Execute()
}
