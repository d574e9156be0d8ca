package main

import "novastay/internal/cli"

func main() {
	cli.Execute()
}
