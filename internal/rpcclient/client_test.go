package rpcclient

import (
	"errors"
	"testing"

	"github.com/kilnworks/kiln/config"
	"github.com/kilnworks/kiln/internal/contract"
	"github.com/kilnworks/kiln/internal/ledger"
	klog "github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/internal/rpc"
	"github.com/kilnworks/kiln/internal/storage"
	"github.com/kilnworks/kiln/pkg/crypto"
	"github.com/kilnworks/kiln/pkg/tx"
	"github.com/kilnworks/kiln/pkg/types"
)

func setupServer(t *testing.T) (*Client, types.Address, *crypto.PrivateKey) {
	t.Helper()
	klog.Init("error", false, "")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var treasury types.Address
	for i := range treasury {
		treasury[i] = 0x7E
	}
	params := &config.Collection{
		Name: "Kiln Editions", Symbol: "KILN", BaseURI: "ipfs://",
		MaxSupply: 100, MintPrice: 500_000, Treasury: treasury.Hex(),
	}

	db := storage.NewMemory()
	t.Cleanup(func() { db.Close() })

	led := ledger.NewStore(db)
	coll, err := contract.New(db, led, params)
	if err != nil {
		t.Fatalf("create collection: %v", err)
	}

	srv := rpc.New("127.0.0.1:0", contract.NewRuntime(coll), led)
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return New("http://" + srv.Addr()), treasury, key
}

func TestClient_Call(t *testing.T) {
	client, _, _ := setupServer(t)

	var price rpc.PriceResult
	if err := client.Call("nft_mintPrice", nil, &price); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if price.Price != 500_000 {
		t.Errorf("price = %d, want 500000", price.Price)
	}
}

func TestClient_Mint(t *testing.T) {
	client, treasury, key := setupServer(t)

	b := tx.NewBuilder().
		AddInput(types.Outpoint{TxID: crypto.Hash([]byte("funding")), Index: 0}).
		Pay(treasury, 500_000)
	if err := b.Sign(key); err != nil {
		t.Fatalf("sign: %v", err)
	}

	var result rpc.MintResult
	err := client.Call("nft_mint", rpc.MintParam{Transaction: b.Build(), TokenURI: "ipfs://a"}, &result)
	if err != nil {
		t.Fatalf("Call nft_mint: %v", err)
	}
	if result.TokenID != 1 {
		t.Errorf("token_id = %s, want 1", result.TokenID)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	client, _, _ := setupServer(t)

	err := client.Call("nft_minterOf", rpc.TokenIDParam{TokenID: 42}, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error type = %T, want *RPCError", err)
	}
	if rpcErr.Code != rpc.CodeNotFound {
		t.Errorf("code = %d, want %d", rpcErr.Code, rpc.CodeNotFound)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	client := New("http://127.0.0.1:1")

	if err := client.Call("nft_mintPrice", nil, nil); err == nil {
		t.Error("expected connection error")
	}
}
