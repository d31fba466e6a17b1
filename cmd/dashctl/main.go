package main

import (
	"os"

	"github.com/GregMSThompson/quality-dashboard/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
