// kiln-cli is a command-line client for interacting with a kilnd node.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/kilnworks/kiln/config"
	"github.com/kilnworks/kiln/internal/rpc"
	"github.com/kilnworks/kiln/internal/rpcclient"
	"github.com/kilnworks/kiln/internal/wallet"
	"github.com/kilnworks/kiln/pkg/tx"
	"github.com/kilnworks/kiln/pkg/types"
	"golang.org/x/term"
)

// keystoreDir returns the keystore path matching kilnd's layout:
// <datadir>/<network>/keystore
func keystoreDir(dataDir, network string) string {
	return filepath.Join(dataDir, network, "keystore")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := "http://127.0.0.1:8545"
	dataDir := config.DefaultDataDir()
	network := "mainnet"

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	// Set address HRP based on network.
	if network == "testnet" {
		types.SetAddressHRP(types.TestnetHRP)
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ksDir := keystoreDir(dataDir, network)
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "info":
		cmdInfo(client)
	case "price":
		cmdPrice(client)
	case "treasury":
		cmdTreasury(client)
	case "mint":
		cmdMint(client, cmdArgs, ksDir)
	case "token":
		cmdToken(client, cmdArgs)
	case "tokens":
		cmdTokens(client)
	case "watch":
		cmdWatch(client, cmdArgs)
	case "wallet":
		cmdWallet(cmdArgs, ksDir)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: kiln-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8545)
  --datadir <path>    Data directory (default: ~/.kiln)
  --network <net>     mainnet (default) or testnet

Commands:
  info                            Show collection status
  price                           Show the mint price
  treasury                        Show the treasury address
  mint --wallet <w> --uri <uri> --outpoint <txid:index>
                                  Pay the treasury and mint an edition
  token <id>                      Show one token's record
  tokens                          List all minted tokens
  watch [--interval <seconds>]    Poll collection status
  wallet create --name <name>     Create a new wallet
  wallet import --name <name> --mnemonic "..."
                                  Import a wallet from a mnemonic
  wallet list                     List wallets
  wallet address --wallet <name>  Show wallet addresses
`)
}

// ── Collection queries ──────────────────────────────────────────────────

func cmdInfo(client *rpcclient.Client) {
	var info rpc.InfoResult
	if err := client.Call("nft_getInfo", nil, &info); err != nil {
		fatal("nft_getInfo: %v", err)
	}
	printInfo(info)
}

func printInfo(info rpc.InfoResult) {
	fmt.Printf("Collection: %s (%s)\n", info.Name, info.Symbol)
	fmt.Printf("  Minted:     %d / %d\n", info.Minted, info.MaxSupply)
	fmt.Printf("  Mint price: %d\n", info.MintPrice)
	fmt.Printf("  Treasury:   %s\n", info.Treasury)
	fmt.Printf("  Base URI:   %s\n", info.BaseURI)
	fmt.Printf("  Height:     %d\n", info.Height)
}

func cmdPrice(client *rpcclient.Client) {
	var result rpc.PriceResult
	if err := client.Call("nft_mintPrice", nil, &result); err != nil {
		fatal("nft_mintPrice: %v", err)
	}
	fmt.Println(result.Price)
}

func cmdTreasury(client *rpcclient.Client) {
	var result rpc.TreasuryResult
	if err := client.Call("nft_treasury", nil, &result); err != nil {
		fatal("nft_treasury: %v", err)
	}
	fmt.Println(result.Treasury)
}

func cmdToken(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: kiln-cli token <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fatal("invalid token id %q", args[0])
	}

	var token rpc.TokenResult
	if err := client.Call("nft_getToken", rpc.TokenIDParam{TokenID: types.TokenID(id)}, &token); err != nil {
		fatal("nft_getToken: %v", err)
	}
	printToken(token)
}

func printToken(token rpc.TokenResult) {
	fmt.Printf("Token %s\n", token.TokenID)
	fmt.Printf("  Owner:     %s\n", token.Owner)
	fmt.Printf("  URI:       %s\n", token.TokenURI)
	fmt.Printf("  Minter:    %s\n", token.Minter)
	fmt.Printf("  Minted at: block %d\n", token.MintedAt)
}

func cmdTokens(client *rpcclient.Client) {
	var list rpc.ListTokensResult
	if err := client.Call("nft_listTokens", nil, &list); err != nil {
		fatal("nft_listTokens: %v", err)
	}
	if len(list.Tokens) == 0 {
		fmt.Println("No tokens minted yet.")
		return
	}
	for _, token := range list.Tokens {
		fmt.Printf("  [%s] %s  owner=%s  minted@%d\n",
			token.TokenID, token.TokenURI, token.Owner, token.MintedAt)
	}
}

func cmdWatch(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Int("interval", 15, "Poll interval in seconds")
	fs.Parse(args)

	if *interval < 1 {
		fatal("interval must be at least 1 second")
	}

	for {
		var info rpc.InfoResult
		if err := client.Call("nft_getInfo", nil, &info); err != nil {
			fmt.Fprintf(os.Stderr, "poll failed: %v\n", err)
		} else {
			fmt.Printf("[%s] minted %d/%d  height %d\n",
				time.Now().Format("15:04:05"), info.Minted, info.MaxSupply, info.Height)
		}
		time.Sleep(time.Duration(*interval) * time.Second)
	}
}

// ── Mint ────────────────────────────────────────────────────────────────

func cmdMint(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	uri := fs.String("uri", "", "Metadata URI for the new token")
	outpoint := fs.String("outpoint", "", "Funding outpoint (txid:index)")
	fs.Parse(args)

	if *walletName == "" || *uri == "" || *outpoint == "" {
		fatal("Usage: kiln-cli mint --wallet <name> --uri <uri> --outpoint <txid:index>")
	}

	prevOut, err := parseOutpoint(*outpoint)
	if err != nil {
		fatal("invalid outpoint: %v", err)
	}

	// Fetch price and treasury from the node so the payment always
	// matches the deployed contract.
	var price rpc.PriceResult
	if err := client.Call("nft_mintPrice", nil, &price); err != nil {
		fatal("nft_mintPrice: %v", err)
	}
	var treasuryResult rpc.TreasuryResult
	if err := client.Call("nft_treasury", nil, &treasuryResult); err != nil {
		fatal("nft_treasury: %v", err)
	}
	treasury, err := types.ParseAddress(treasuryResult.Treasury)
	if err != nil {
		fatal("parse treasury address: %v", err)
	}

	// Unlock the wallet and derive the signing key.
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	seed, err := ks.Load(*walletName, password)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveAddress(0, wallet.ChangeExternal, 0)
	if err != nil {
		fatal("derive key: %v", err)
	}
	signer, err := hdKey.Signer()
	if err != nil {
		fatal("derive signer: %v", err)
	}
	defer signer.Zero()

	// Build and sign the payment transaction.
	builder := tx.NewBuilder().
		AddInput(prevOut).
		Pay(treasury, price.Price)
	if err := builder.Sign(signer); err != nil {
		fatal("sign transaction: %v", err)
	}

	var result rpc.MintResult
	err = client.Call("nft_mint", rpc.MintParam{
		Transaction: builder.Build(),
		TokenURI:    *uri,
	}, &result)
	if err != nil {
		fatal("nft_mint: %v", err)
	}

	fmt.Printf("Minted token %s\n", result.TokenID)
	fmt.Printf("  Minter: %s\n", result.Minter)
	fmt.Printf("  Height: %d\n", result.Height)
	fmt.Printf("  Tx:     %s\n", result.TxHash)
}

// parseOutpoint parses "txid:index" where txid is 32-byte hex.
func parseOutpoint(s string) (types.Outpoint, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return types.Outpoint{}, fmt.Errorf("expected txid:index")
	}
	txid, err := types.HexToHash(s[:i])
	if err != nil {
		return types.Outpoint{}, fmt.Errorf("txid: %w", err)
	}
	index, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return types.Outpoint{}, fmt.Errorf("index: %w", err)
	}
	return types.Outpoint{TxID: txid, Index: uint32(index)}, nil
}

// ── Wallet commands ─────────────────────────────────────────────────────

func cmdWallet(args []string, ksDir string) {
	if len(args) < 1 {
		fatal("Usage: kiln-cli wallet <create|import|list|address> [flags]")
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(args[1:], ksDir)
	case "import":
		cmdWalletImport(args[1:], ksDir)
	case "list":
		cmdWalletList(ksDir)
	case "address":
		cmdWalletAddress(args[1:], ksDir)
	default:
		fatal("Unknown wallet command: %s\nUsage: kiln-cli wallet <create|import|list|address> [flags]", args[0])
	}
}

func cmdWalletCreate(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: kiln-cli wallet create --name <name>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	saveWallet(*name, mnemonic, ksDir, "Wallet created")
}

func cmdWalletImport(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: kiln-cli wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	saveWallet(*name, *mnemonic, ksDir, "Wallet imported")
}

// saveWallet prompts for a password, encrypts the seed, and records the
// account 0 address.
func saveWallet(name, mnemonic, ksDir, doneMsg string) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	// Derive account 0 address before encrypting.
	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveAddress(0, wallet.ChangeExternal, 0)
	if err != nil {
		fatal("derive address: %v", err)
	}
	addr := hdKey.Address()

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("create keystore: %v", err)
	}
	if err := ks.Create(name, seed, password, wallet.DefaultParams()); err != nil {
		fatal("create wallet: %v", err)
	}

	// Zero seed.
	for i := range seed {
		seed[i] = 0
	}

	if err := ks.AddAccount(name, wallet.AccountEntry{
		Index:   0,
		Name:    "Default",
		Address: addr.String(),
	}); err != nil {
		fatal("add account: %v", err)
	}

	fmt.Printf("\n%s: %s\n", doneMsg, name)
	fmt.Printf("Address: %s\n", addr.String())
}

func cmdWalletList(ksDir string) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}

	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdWalletAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: kiln-cli wallet address --wallet <name>")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	accounts, err := ks.ListAccounts(*walletName)
	if err != nil {
		fatal("list accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No addresses found.")
		return
	}
	for _, acct := range accounts {
		fmt.Printf("  [%d] %s\n", acct.Index, acct.Address)
	}
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
