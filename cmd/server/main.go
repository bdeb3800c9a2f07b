package main

import "lpdp/internal/app/server"

func main() {
	server.Run()
}
