package main

import "user-sync/cmd/usersync/cmd"

func main() {
	cmd.Execute()
}
