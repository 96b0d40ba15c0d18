package main

import "github.com/KaramelBytes/tidyset/cmd"

func main() {
	cmd.Execute()
}
