package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env不存在时直接使用进程环境变量
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
