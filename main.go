package main

import "github.com/StinkyLord/msbuild-compdb/cmd"

func main() {
	cmd.Execute()
}
