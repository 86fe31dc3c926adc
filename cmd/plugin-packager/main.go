package main

import "github.com/nativepc/plugin-packager/cmd/plugin-packager/cmd"

func main() {
	cmd.Execute()
}
