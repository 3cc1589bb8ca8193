package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/recordkeeper/internal/client/walletcmd"
)

func main() {
	if err := walletcmd.NewRootCommand(int(os.Stdin.Fd())).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
