package main

import "varpipe/cmd"

func main() {
	cmd.Execute()
}
