package main

import "github.com/conradludgate/hslwatch/internal/cli"

func main() {
	cli.Execute()
}
