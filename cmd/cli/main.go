package main

import "github.com/CHS18-77/FineEase/pkg/cli"

func main() {
	cli.Execute()
}
