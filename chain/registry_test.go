package chain_test

import (
	"testing"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
)

func TestRegistry_RoundTrip(t *testing.T) {
	t.Parallel()

	ids := chain.All()
	require.NotEmpty(t, ids)

	for _, id := range ids {
		name, err := chain.ToChainName(id)
		require.NoError(t, err)

		got, err := chain.ToChainID(name)
		require.NoError(t, err)
		assert.Equal(t, id, got, "id -> name -> id for %s", name)

		back, err := chain.ToChainName(got)
		require.NoError(t, err)
		assert.Equal(t, name, back)
	}
}

func TestToChainID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    chain.Name
		want    chain.ID
		wantErr string
	}{
		{name: "ethereum", give: "ethereum", want: chain.Ethereum},
		{name: "bsc", give: "bsc", want: chain.BSC},
		{name: "algorand", give: "algorand", want: chain.Algorand},
		{name: "bitcoin uses short name", give: "btc", want: chain.Bitcoin},
		{name: "unknown name", give: "dogechain", wantErr: "unknown chain"},
		{name: "names are case sensitive", give: "Ethereum", wantErr: "unknown chain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := chain.ToChainID(tt.give)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, chain.ErrUnknownChain)
				assert.ErrorContains(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToChainName_Unknown(t *testing.T) {
	t.Parallel()

	_, err := chain.ToChainName(chain.ID(27))
	require.ErrorIs(t, err, chain.ErrUnknownChain)
}

func TestIsChain(t *testing.T) {
	t.Parallel()

	assert.True(t, chain.IsChain(chain.Ethereum))
	assert.True(t, chain.IsChain(chain.Name("sepolia")))
	assert.False(t, chain.IsChain(chain.ID(9999)))
	assert.False(t, chain.IsChain(chain.Name("nope")))
}

func TestCoalesceChainID(t *testing.T) {
	t.Parallel()

	got, err := chain.CoalesceChainID(chain.Terra2)
	require.NoError(t, err)
	assert.Equal(t, chain.Terra2, got)

	got, err = chain.CoalesceChainID(chain.Name("terra2"))
	require.NoError(t, err)
	assert.Equal(t, chain.Terra2, got)

	_, err = chain.CoalesceChainID(chain.ID(0))
	require.ErrorIs(t, err, chain.ErrUnknownChain)

	_, err = chain.CoalesceChainID(chain.Name(""))
	require.ErrorIs(t, err, chain.ErrUnknownChain)
}

func TestFamilyPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id           chain.ID
		wantEVM      bool
		wantCosmWasm bool
		wantTerra    bool
	}{
		{id: chain.Ethereum, wantEVM: true},
		{id: chain.BSC, wantEVM: true},
		{id: chain.Sepolia, wantEVM: true},
		{id: chain.Base, wantEVM: true},
		{id: chain.Terra, wantCosmWasm: true, wantTerra: true},
		{id: chain.Terra2, wantCosmWasm: true, wantTerra: true},
		{id: chain.Injective, wantCosmWasm: true},
		{id: chain.XPLA, wantCosmWasm: true},
		{id: chain.Sei, wantCosmWasm: true},
		{id: chain.Osmosis},
		{id: chain.Algorand},
		{id: chain.Solana},
		{id: chain.Sui},
		{id: chain.ID(9999)},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantEVM, chain.IsEVMChain(tt.id))
			assert.Equal(t, tt.wantCosmWasm, chain.IsCosmWasmChain(tt.id))
			assert.Equal(t, tt.wantTerra, chain.IsTerraChain(tt.id))
		})
	}
}

func TestFamilyOf(t *testing.T) {
	t.Parallel()

	f, err := chain.FamilyOf(chain.Pythnet)
	require.NoError(t, err)
	assert.Equal(t, chain.FamilySolana, f)

	_, err = chain.FamilyOf(chain.ID(9999))
	require.ErrorIs(t, err, chain.ErrUnknownChain)
}

func TestChainsOfFamily(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []chain.ID{chain.Solana, chain.Pythnet}, chain.ChainsOfFamily(chain.FamilySolana))
	assert.Empty(t, chain.ChainsOfFamily("unknown"))

	for _, id := range chain.ChainsOfFamily(chain.FamilyEVM) {
		assert.True(t, chain.IsEVMChain(id), "%s", id)
	}
}

func TestID_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ethereum (2)", chain.Ethereum.String())
	assert.Equal(t, "unknown (27)", chain.ID(27).String())
}

func TestDetails(t *testing.T) {
	t.Parallel()

	info, err := chain.Details(chain.Ethereum)
	require.NoError(t, err)
	assert.Equal(t, chainsel.ETHEREUM_MAINNET.Selector, info.ChainSelector)
	assert.Equal(t, chainsel.ETHEREUM_MAINNET.Name, info.ChainName)

	sel, err := chain.Selector(chain.Ethereum)
	require.NoError(t, err)
	assert.Equal(t, chainsel.ETHEREUM_MAINNET.Selector, sel)

	_, err = chain.Details(chain.Algorand)
	require.ErrorIs(t, err, chain.ErrNoSelector)

	_, err = chain.Details(chain.ID(9999))
	require.ErrorIs(t, err, chain.ErrUnknownChain)
}
