package corerunner

// Network selects which pre-baked stellar-core.cfg template a Config
// writes into its context directory. Content is fixed; only the selector
// varies - there is no interpolation.
type Network string

const (
	Futurenet Network = "futurenet"
	Pubnet    Network = "pubnet"
	Testnet   Network = "testnet"
)

// templates are the three fixed configuration bodies this module ships.
// They differ only in NETWORK_PASSPHRASE and one
// validator/history-archive entry; all three share logging off, an
// ephemeral HTTP port, a local sqlite3 database, peer port 11725, and
// UNSAFE_QUORUM=true.
var templates = map[Network]string{
	Futurenet: futurenetTemplate,
	Pubnet:    pubnetTemplate,
	Testnet:   testnetTemplate,
}

const futurenetTemplate = `
LOG_COLOR=true
LOG_FILE_PATH=""
HTTP_PORT=0
PUBLIC_HTTP_PORT=false

NETWORK_PASSPHRASE="Test SDF Future Network ; October 2022"

DATABASE="sqlite3://stellar.db"
PEER_PORT=11725

UNSAFE_QUORUM=true

[[HOME_DOMAINS]]
HOME_DOMAIN="futurenet.stellar.org"
QUALITY="MEDIUM"

[[VALIDATORS]]
NAME="sdf_futurenet_1"
HOME_DOMAIN="futurenet.stellar.org"
PUBLIC_KEY="GBRIF2N52GVN3EXBBICD5F4L5VUFXK6S6VOUCF6T2DWPLOLGWEPPYZTF"
ADDRESS="core-live-futurenet.stellar.org"
HISTORY="curl -sf http://history-futurenet.stellar.org/{0} -o {1}"
`

const pubnetTemplate = `
LOG_COLOR=true
LOG_FILE_PATH=""
HTTP_PORT=0
PUBLIC_HTTP_PORT=false

NETWORK_PASSPHRASE="Public Global Stellar Network ; September 2015"

DATABASE="sqlite3://stellar.db"
PEER_PORT=11725

UNSAFE_QUORUM=true

[[HOME_DOMAINS]]
HOME_DOMAIN="stellar.org"
QUALITY="MEDIUM"

[[VALIDATORS]]
NAME="sdf_1"
HOME_DOMAIN="stellar.org"
PUBLIC_KEY="GCGB2S2KGYARPVIA37HYZXVRM2YZUEXA6S33ZU5BUDC6THSB62LZSTYH"
ADDRESS="core-live-a.stellar.org:11625"
HISTORY="curl -sf https://history.stellar.org/prd/core-live/core_live_001/{0} -o {1}"
`

const testnetTemplate = `
LOG_COLOR=true
LOG_FILE_PATH=""
HTTP_PORT=0
PUBLIC_HTTP_PORT=false

NETWORK_PASSPHRASE="Test SDF Network ; September 2015"

DATABASE="sqlite3://stellar.db"
PEER_PORT=11725

UNSAFE_QUORUM=true

[[HOME_DOMAINS]]
HOME_DOMAIN="testnet.stellar.org"
QUALITY="MEDIUM"

[[VALIDATORS]]
NAME="sdf_testnet_1"
HOME_DOMAIN="testnet.stellar.org"
PUBLIC_KEY="GDKXE2OZMJIPOSLNA6N6F2BVCI3O777I2OOC4BV7VOYUEHYX7RTRYA7Y"
ADDRESS="core-testnet1.stellar.org"
HISTORY="curl -sf http://history.stellar.org/prd/core-testnet/core_testnet_001/{0} -o {1}"
`
