// Command climaprj aggregates air-conditioner listings from several shops
// and serves them over HTTP.
package main

import "climaprj/cmd/climaprj/cmd"

func main() {
	cmd.Execute()
}
