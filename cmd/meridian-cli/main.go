// meridian-cli is a command-line wallet client for the Meridian chain.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/term"

	"github.com/meridian-chain/meridian-go/config"
	"github.com/meridian-chain/meridian-go/internal/log"
	"github.com/meridian-chain/meridian-go/internal/restclient"
	"github.com/meridian-chain/meridian-go/pkg/client"
	"github.com/meridian-chain/meridian-go/pkg/tx"
	"github.com/meridian-chain/meridian-go/pkg/types"
	"github.com/meridian-chain/meridian-go/pkg/wallet"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fatal("load config: %v", err)
	}

	// Scan global flags that appear before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--node" && len(args) > 1:
			cfg.NodeURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--node="):
			cfg.NodeURL = args[0][len("--node="):]
			args = args[1:]
		case args[0] == "--faucet" && len(args) > 1:
			cfg.FaucetURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--faucet="):
			cfg.FaucetURL = args[0][len("--faucet="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			cfg = networkConfig(args[1])
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			cfg = networkConfig(args[0][len("--network="):])
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.JSON)

	transport := restclient.New(cfg.NodeURL, cfg.FaucetURL)
	cli := client.New(transport,
		client.WithChainID(cfg.ChainID),
		client.WithPollPeriod(time.Duration(cfg.PollPeriodMS)*time.Millisecond),
		client.WithPollTimeout(time.Duration(cfg.PollTimeoutMS)*time.Millisecond),
		client.WithGasParams(tx.GasParams{
			MaxGasAmount: cfg.MaxGasAmount,
			GasUnitPrice: cfg.GasUnitPrice,
		}),
		client.WithLogger(log.Submit),
	)
	ctx := context.Background()

	switch args[0] {
	case "new":
		cmdNew(cli)
	case "address", "import":
		cmdAddress(cli)
	case "balance":
		cmdBalance(ctx, cli, args[1:])
	case "fund":
		cmdFund(ctx, cli, args[1:])
	case "transfer":
		cmdTransfer(ctx, cli, args[1:])
	case "create-collection":
		cmdCreateCollection(ctx, cli, args[1:])
	case "create-token":
		cmdCreateToken(ctx, cli, args[1:])
	case "offer":
		cmdOffer(ctx, cli, args[1:])
	case "claim":
		cmdClaim(ctx, cli, args[1:])
	case "cancel":
		cmdCancel(ctx, cli, args[1:])
	case "tokens":
		cmdTokens(ctx, cli, args[1:])
	case "receive":
		cmdReceive(args[1:])
	case "help", "-h", "--help":
		usage()
	default:
		fatal("unknown command %q (run meridian-cli help)", args[0])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: meridian-cli [global flags] <command> [args]

Global flags:
  --node <url>       Node REST endpoint
  --faucet <url>     Faucet endpoint (devnet/testnet)
  --network <net>    devnet (default), testnet, or mainnet

Commands:
  new                             Generate a wallet and print its address
  address                         Derive the address for a mnemonic
  balance <address>               Show native coin balance
  fund <address> <amount>         Request faucet coins (dev networks)
  transfer <to> <amount>          Send coins (prompts for mnemonic)
  create-collection <name> <description> <uri> [maximum]
  create-token <collection> <name> <description> <supply> <uri>
  offer <receiver> <creator> <collection> <token> <amount>
  claim <offerer> <creator> <collection> <token>
  cancel <receiver> <creator> <collection> <token>
  tokens owned|minted|all <address>
                                  List token identities for an address
  receive <address> <out.png>     Write the address QR code to a PNG file

The mnemonic for signing commands is read from hidden terminal input, or
from MERIDIAN_MNEMONIC when set.
`)
}

func networkConfig(name string) *config.Config {
	cfg := config.Default(config.NetworkType(name))
	if err := config.Validate(cfg); err != nil {
		fatal("network %q: %v", name, err)
	}
	return cfg
}

func cmdNew(cli *client.Client) {
	mnemonic, acct, err := cli.CreateWallet()
	if err != nil {
		fatal("create wallet: %v", err)
	}
	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)
	fmt.Printf("Address:  %s\n", acct.Address())
	fmt.Printf("Auth key: %s\n", acct.AuthKey().Hex())
}

func cmdAddress(cli *client.Client) {
	acct := mustAccount(cli)
	fmt.Printf("Address:  %s\n", acct.Address())
	fmt.Printf("Auth key: %s\n", acct.AuthKey().Hex())
}

func cmdBalance(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 1 {
		fatal("Usage: meridian-cli balance <address>")
	}
	balance, err := cli.Balance(ctx, mustAddress(args[0]))
	if err != nil {
		fatal("fetch balance: %v", err)
	}
	fmt.Printf("Balance: %d\n", balance)
}

func cmdFund(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 2 {
		fatal("Usage: meridian-cli fund <address> <amount>")
	}
	if err := cli.Fund(ctx, mustAddress(args[0]), mustAmount(args[1])); err != nil {
		fatal("fund: %v", err)
	}
	fmt.Println("Funded.")
}

func cmdTransfer(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 2 {
		fatal("Usage: meridian-cli transfer <to> <amount>")
	}
	sender := mustAccount(cli)
	hash, err := cli.Transfer(ctx, sender, mustAddress(args[0]), mustAmount(args[1]))
	reportSubmission(hash, err)
}

func cmdCreateCollection(ctx context.Context, cli *client.Client, args []string) {
	if len(args) < 3 || len(args) > 4 {
		fatal("Usage: meridian-cli create-collection <name> <description> <uri> [maximum]")
	}
	var maximum uint64
	if len(args) == 4 {
		maximum = mustAmount(args[3])
	}
	sender := mustAccount(cli)
	hash, err := cli.CreateCollection(ctx, sender, args[0], args[1], args[2], maximum)
	reportSubmission(hash, err)
}

func cmdCreateToken(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 5 {
		fatal("Usage: meridian-cli create-token <collection> <name> <description> <supply> <uri>")
	}
	sender := mustAccount(cli)
	hash, err := cli.CreateToken(ctx, sender, args[0], args[1], args[2], mustAmount(args[3]), args[4])
	reportSubmission(hash, err)
}

func cmdOffer(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 5 {
		fatal("Usage: meridian-cli offer <receiver> <creator> <collection> <token> <amount>")
	}
	sender := mustAccount(cli)
	id := types.TokenID{Creator: mustAddress(args[1]), Collection: args[2], Name: args[3]}
	hash, err := cli.OfferToken(ctx, sender, mustAddress(args[0]), id, mustAmount(args[4]))
	reportSubmission(hash, err)
}

func cmdClaim(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 4 {
		fatal("Usage: meridian-cli claim <offerer> <creator> <collection> <token>")
	}
	sender := mustAccount(cli)
	id := types.TokenID{Creator: mustAddress(args[1]), Collection: args[2], Name: args[3]}
	hash, err := cli.ClaimToken(ctx, sender, mustAddress(args[0]), id)
	reportSubmission(hash, err)
}

func cmdCancel(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 4 {
		fatal("Usage: meridian-cli cancel <receiver> <creator> <collection> <token>")
	}
	sender := mustAccount(cli)
	id := types.TokenID{Creator: mustAddress(args[1]), Collection: args[2], Name: args[3]}
	hash, err := cli.CancelOffer(ctx, sender, mustAddress(args[0]), id)
	reportSubmission(hash, err)
}

func cmdTokens(ctx context.Context, cli *client.Client, args []string) {
	if len(args) != 2 {
		fatal("Usage: meridian-cli tokens owned|minted|all <address>")
	}
	address := mustAddress(args[1])

	var ids []types.TokenID
	var err error
	switch args[0] {
	case "owned":
		ids, err = cli.OwnedTokens(ctx, address)
	case "minted":
		ids, err = cli.MintedTokens(ctx, address)
	case "all":
		ids, err = cli.AllReceivedTokens(ctx, address)
	default:
		fatal("tokens query must be owned, minted, or all")
	}
	if err != nil {
		fatal("fetch tokens: %v", err)
	}
	if len(ids) == 0 {
		fmt.Println("No tokens.")
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}

func cmdReceive(args []string) {
	if len(args) != 2 {
		fatal("Usage: meridian-cli receive <address> <out.png>")
	}
	address := mustAddress(args[0])
	if err := qrcode.WriteFile(address.Hex(), qrcode.Medium, 256, args[1]); err != nil {
		fatal("write QR code: %v", err)
	}
	fmt.Printf("QR code for %s written to %s\n", address.Short(), args[1])
}

func reportSubmission(hash string, err error) {
	if err != nil {
		if hash != "" {
			fmt.Fprintf(os.Stderr, "Transaction hash: %s\n", hash)
		}
		fatal("%v", err)
	}
	fmt.Printf("Confirmed: %s\n", hash)
}

// mustAccount reads the signing mnemonic from MERIDIAN_MNEMONIC or hidden
// terminal input and derives the account.
func mustAccount(cli *client.Client) *wallet.Account {
	mnemonic := os.Getenv("MERIDIAN_MNEMONIC")
	if mnemonic == "" {
		raw, err := readSecret("Enter mnemonic: ")
		if err != nil {
			fatal("read mnemonic: %v", err)
		}
		mnemonic = string(raw)
	}
	acct, err := cli.ImportWallet(strings.TrimSpace(mnemonic))
	if err != nil {
		fatal("import wallet: %v", err)
	}
	return acct
}

func mustAddress(s string) types.Address {
	addr, err := types.AddressFromHex(s)
	if err != nil {
		fatal("invalid address %q: %v", s, err)
	}
	return addr
}

func mustAmount(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fatal("invalid amount %q: %v", s, err)
	}
	return v
}

func readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return secret, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
