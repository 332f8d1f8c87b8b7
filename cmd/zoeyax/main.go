package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// globalFlags 所有命令共用的参数
var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "配置文件路径 (默认 ~/.zoeyax/config.yaml)",
		EnvVars: []string{"ZOEYAX_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "日志级别 (debug/info/warn/error)",
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "日志文件路径",
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "zoeyax",
		Usage:   "macOS 无障碍界面自动化工具",
		Version: Version,
		Description: `通过辅助功能接口查看和操作其他应用的界面元素。

示例:
  zoeyax apps
  zoeyax tree --bundle-id com.apple.TextEdit --depth 3
  zoeyax find --bundle-id com.apple.TextEdit --role AXButton --title 'Save*' -r
  zoeyax menu --bundle-id com.apple.TextEdit File New
  zoeyax wait --bundle-id com.apple.TextEdit --notification AXWindowCreated --timeout 10s`,
		Flags: globalFlags,
		Commands: []*cli.Command{
			versionCommand,
			permissionsCommand,
			appsCommand,
			treeCommand,
			findCommand,
			pressCommand,
			waitCommand,
			typeCommand,
			launchCommand,
			terminateCommand,
			menuCommand,
			configCommand,
		},
	}
}

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}
