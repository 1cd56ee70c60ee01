package main

import "mydev-wallet/cmd/wallet-cli/cmd"

func main() {
	cmd.Execute()
}
