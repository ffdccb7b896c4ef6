package main

import (
	"fmt"
	"os"
)

var version = "dev"

// @title                       workhub API
// @version                     1.0
// @description                 Task planner, time tracker and dashboards.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
