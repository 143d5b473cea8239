// netresolve resolves the configured EVM network profiles into endpoint and signer
// bundles, and can probe the resolved endpoints.
package main

func main() {
	Execute()
}
