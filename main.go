package main

import "jobsync/cmd"

func main() {
	cmd.Execute()
}
