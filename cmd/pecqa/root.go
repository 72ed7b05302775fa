package main

import (
	"fmt"
	"io"

	"github.com/fyerfyer/pec-qa/api/middleware"
	qaconfig "github.com/fyerfyer/pec-qa/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configFile string
	logLevel   string

	appConfig *qaconfig.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pecqa",
	Short: "Question answering over the Philippine Electrical Code, Chapter 2",
	Long: `pecqa chunks the structured PEC Chapter 2 document, builds a semantic index
over the chunks and answers questions with cited sections.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug/info/warn/error)")
}

// loadConfig 加载配置并初始化日志
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := qaconfig.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := setupLogger(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return err
	}
	appConfig = cfg
	logger = middleware.GetLogger()
	return nil
}

// setupLogger 设置日志级别与输出，配置了日志文件时按大小轮转
func setupLogger(cfg qaconfig.LogConfig, stderr io.Writer) error {
	var output io.Writer = stderr
	if cfg.File != "" {
		output = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}
	if err := middleware.Configure(cfg.Level, output); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	return nil
}
