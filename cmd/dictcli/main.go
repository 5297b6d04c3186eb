package main

import (
	"flag"
	"log"
	"os"
)

// dictcli 是互動式的選單，用來手動操作 AVL tree 與 skip list。
// 選項後面可以直接帶參數，例如 `a 42 hello` 會插入 key 42。
func main() {
	seed := flag.Int64("seed", 1, "seed for the skip list coins")
	flag.Parse()

	if err := newSession(os.Stdin, os.Stdout, *seed).Run(); err != nil {
		log.Fatalf("dictcli: %v", err)
	}
}
