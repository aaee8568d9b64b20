package idgen

import (
	"log"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

func Init() {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(1)
		if err != nil {
			log.Fatalf("Failed to init Snowflake: %v", err)
		}
	})
}

// GenerateString menghasilkan ID snowflake dalam bentuk string base58,
// dipakai untuk kode QR aset dan token referensi pergerakan stok.
func GenerateString() string {
	Init()
	return node.Generate().Base58()
}
