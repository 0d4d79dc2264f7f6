package main

import "github.com/ddknet/node/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
