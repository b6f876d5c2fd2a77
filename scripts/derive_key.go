// derive_key.go prints the pubkey, auth key and address for a mnemonic file.
// Usage: go run scripts/derive_key.go <mnemonicfile>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/meridian-chain/meridian-go/pkg/wallet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <mnemonicfile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	mnemonic := strings.TrimSpace(string(data))
	acct, err := wallet.NewAccountFromMnemonic(mnemonic)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("pubkey=%s\n", hex.EncodeToString(acct.PublicKeyBytes()))
	fmt.Printf("authkey=%s\n", acct.AuthKey().Hex())
	fmt.Printf("address=%s\n", acct.Address().Hex())
}
