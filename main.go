package main

import "github.com/ledgerprobe/ledgerprobe/cmd/ledgerprobe"

func main() {
	ledgerprobe.Execute()
}
