package main

import "github.com/walletpass/passd/internal/cli"

func main() {
	cli.Execute()
}
