package main

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/config"
	"github.com/zoeyai/zoeyax/pkg/permissions"
	"github.com/zoeyai/zoeyax/pkg/session"
)

// ==================== 会话 ====================

func configManager(c *cli.Context) *config.Manager {
	if path := c.String("config"); path != "" {
		return config.NewManagerWithFile(path)
	}
	return config.GetDefaultManager()
}

// loadConfig 加载配置，优先级: 命令行 > 环境变量 > 配置文件
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := configManager(c).Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-file"); v != "" {
		cfg.Log.File = v
	}
	return cfg, nil
}

func openSession(c *cli.Context) (*session.Session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return session.Open(cfg, nil)
}

// withTrustedSession 打开会话并确认已授权辅助功能
func withTrustedSession(c *cli.Context, fn func(*session.Session) error) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if status := permissions.Check(s, false); !status.Accessibility {
		return fmt.Errorf("%w\n%s", ax.ErrAPIDisabled, permissions.Instructions(status))
	}
	return fn(s)
}

// ==================== 目标应用 ====================

var targetFlags = []cli.Flag{
	&cli.StringFlag{Name: "bundle-id", Aliases: []string{"b"}, Usage: "应用 bundle id"},
	&cli.IntFlag{Name: "pid", Usage: "应用进程 ID"},
	&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "应用名称 (支持通配符)"},
}

// resolveApp 按参数查找应用，未指定时使用前台应用
func resolveApp(c *cli.Context, s *session.Session) (*ax.Element, error) {
	switch {
	case c.Int("pid") > 0:
		return s.AppByPID(c.Int("pid")), nil
	case c.String("bundle-id") != "":
		return s.AppByBundleID(c.String("bundle-id"))
	case c.String("name") != "":
		return s.AppByLocalizedName(c.String("name"))
	default:
		return s.FrontmostApp()
	}
}

var criteriaFlags = []cli.Flag{
	&cli.StringFlag{Name: "role", Usage: "AXRole，例如 AXButton"},
	&cli.StringFlag{Name: "subrole", Usage: "AXSubrole"},
	&cli.StringFlag{Name: "title", Usage: "AXTitle (支持通配符)"},
	&cli.StringFlag{Name: "value", Usage: "AXValue (支持通配符)"},
	&cli.StringFlag{Name: "identifier", Usage: "AXIdentifier"},
	&cli.StringSliceFlag{Name: "attr", Usage: "其他属性条件 name=value，可重复"},
}

// criteriaFromFlags 由参数组装匹配条件
func criteriaFromFlags(c *cli.Context) (ax.Criteria, error) {
	criteria := ax.Criteria{}
	for flag, attr := range map[string]string{
		"role":       "AXRole",
		"subrole":    "AXSubrole",
		"title":      "AXTitle",
		"value":      "AXValue",
		"identifier": "AXIdentifier",
	} {
		if v := c.String(flag); v != "" {
			criteria[attr] = v
		}
	}
	for _, kv := range c.StringSlice("attr") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("属性条件格式应为 name=value: %q", kv)
		}
		criteria[name] = value
	}
	return criteria, nil
}

// parseMenuPath 将参数转换为菜单路径，#N 表示下标
func parseMenuPath(args []string) ([]any, error) {
	path := make([]any, 0, len(args))
	for _, arg := range args {
		if idx, ok := strings.CutPrefix(arg, "#"); ok {
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("无效的菜单下标: %q", arg)
			}
			path = append(path, n)
			continue
		}
		path = append(path, arg)
	}
	return path, nil
}

// printTree 打印元素层级，maxDepth 小于 0 表示不限深度
func printTree(w io.Writer, el *ax.Element, depth, maxDepth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), el)
	if maxDepth >= 0 && depth >= maxDepth {
		return
	}
	children, err := el.Children()
	if err != nil {
		fmt.Fprintf(w, "%s! %v\n", strings.Repeat("  ", depth+1), err)
		return
	}
	for _, child := range children {
		printTree(w, child, depth+1, maxDepth)
	}
}

// ==================== 命令 ====================

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "显示版本信息",
	Action: func(c *cli.Context) error {
		w := c.App.Writer
		fmt.Fprintf(w, "zoeyax %s\n", Version)
		fmt.Fprintf(w, "  构建时间: %s\n", BuildTime)
		fmt.Fprintf(w, "  Git 提交: %s\n", GitCommit)
		fmt.Fprintf(w, "  平台:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

var permissionsCommand = &cli.Command{
	Name:  "permissions",
	Usage: "检查辅助功能权限",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "prompt", Usage: "未授权时弹出系统授权窗口"},
		&cli.BoolFlag{Name: "open", Usage: "打开辅助功能设置页面"},
		&cli.StringFlag{Name: "reset", Usage: "重置指定 bundle id 的授权"},
	},
	Action: func(c *cli.Context) error {
		if id := c.String("reset"); id != "" {
			return permissions.ResetAccessibility(id)
		}
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.Close()

		status := permissions.Check(s, c.Bool("prompt"))
		fmt.Fprintf(c.App.Writer, "辅助功能: %v\n", status.Accessibility)
		if msg := permissions.Instructions(status); msg != "" {
			fmt.Fprintln(c.App.Writer, msg)
		}
		if c.Bool("open") {
			permissions.OpenAccessibilitySettings()
		}
		return nil
	},
}

var appsCommand = &cli.Command{
	Name:  "apps",
	Usage: "列出运行中的 GUI 应用",
	Action: func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.Close()

		apps, err := s.RunningApps()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PID\tBUNDLE ID\tNAME")
		for _, app := range apps {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", app.PID, app.BundleID, app.LocalizedName)
		}
		return tw.Flush()
	},
}

var treeCommand = &cli.Command{
	Name:  "tree",
	Usage: "打印应用的界面元素层级",
	Flags: append(append([]cli.Flag{}, targetFlags...),
		&cli.IntFlag{Name: "depth", Aliases: []string{"d"}, Value: -1, Usage: "最大深度，-1 不限"},
	),
	Action: func(c *cli.Context) error {
		return withTrustedSession(c, func(s *session.Session) error {
			app, err := resolveApp(c, s)
			if err != nil {
				return err
			}
			printTree(c.App.Writer, app, 0, c.Int("depth"))
			return nil
		})
	},
}

var findCommand = &cli.Command{
	Name:  "find",
	Usage: "查找匹配条件的元素",
	Flags: append(append(append([]cli.Flag{}, targetFlags...), criteriaFlags...),
		&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "搜索所有后代而不只是子元素"},
	),
	Action: func(c *cli.Context) error {
		return withTrustedSession(c, func(s *session.Session) error {
			app, err := resolveApp(c, s)
			if err != nil {
				return err
			}
			criteria, err := criteriaFromFlags(c)
			if err != nil {
				return err
			}
			seq := app.FindAll(criteria)
			if c.Bool("recursive") {
				seq = app.FindAllR(criteria)
			}
			n := 0
			for el := range seq {
				fmt.Fprintln(c.App.Writer, el)
				n++
			}
			if n == 0 {
				return fmt.Errorf("%w: 没有匹配的元素", ax.ErrNotFound)
			}
			return nil
		})
	},
}

var pressCommand = &cli.Command{
	Name:  "press",
	Usage: "对第一个匹配的元素执行动作",
	Flags: append(append(append([]cli.Flag{}, targetFlags...), criteriaFlags...),
		&cli.StringFlag{Name: "action", Aliases: []string{"a"}, Value: "Press", Usage: "动作名称，可省略 AX 前缀"},
	),
	Action: func(c *cli.Context) error {
		return withTrustedSession(c, func(s *session.Session) error {
			app, err := resolveApp(c, s)
			if err != nil {
				return err
			}
			criteria, err := criteriaFromFlags(c)
			if err != nil {
				return err
			}
			el := app.FindFirstR(criteria)
			if el == nil {
				return fmt.Errorf("%w: 没有匹配的元素", ax.ErrNotFound)
			}
			action := c.String("action")
			if err := el.PerformAction(action); err != nil {
				return err
			}
			s.Log.Info("已执行动作", zap.String("action", action), zap.Stringer("element", el))
			return nil
		})
	},
}

var waitCommand = &cli.Command{
	Name:  "wait",
	Usage: "等待应用发出通知",
	Flags: append(append(append([]cli.Flag{}, targetFlags...), criteriaFlags...),
		&cli.StringFlag{Name: "notification", Value: "AXWindowCreated", Usage: "通知名称"},
		&cli.DurationFlag{Name: "timeout", Usage: "超时，默认使用配置中的 wait_timeout"},
	),
	Action: func(c *cli.Context) error {
		return withTrustedSession(c, func(s *session.Session) error {
			app, err := resolveApp(c, s)
			if err != nil {
				return err
			}
			criteria, err := criteriaFromFlags(c)
			if err != nil {
				return err
			}
			el, err := app.WaitFor(c.Context, c.String("notification"), c.Duration("timeout"), criteria)
			if err != nil {
				return err
			}
			if el == nil {
				return cli.Exit("等待超时", 2)
			}
			fmt.Fprintln(c.App.Writer, el)
			return nil
		})
	},
}

var typeCommand = &cli.Command{
	Name:  "type",
	Usage: "向应用发送文本按键",
	Flags: append(append([]cli.Flag{}, targetFlags...),
		&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Required: true, Usage: "要输入的文本"},
	),
	Action: func(c *cli.Context) error {
		return withTrustedSession(c, func(s *session.Session) error {
			app, err := resolveApp(c, s)
			if err != nil {
				return err
			}
			return app.Input().SendKeys(c.String("text"))
		})
	},
}

var launchCommand = &cli.Command{
	Name:  "launch",
	Usage: "启动应用",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "bundle-id", Aliases: []string{"b"}, Usage: "应用 bundle id"},
		&cli.StringFlag{Name: "path", Usage: "应用路径，例如 /Applications/TextEdit.app"},
	},
	Action: func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.Close()

		if path := c.String("path"); path != "" {
			return s.LaunchAppByBundlePath(path)
		}
		if id := c.String("bundle-id"); id != "" {
			return s.LaunchAppByBundleID(id)
		}
		return fmt.Errorf("需要指定 --bundle-id 或 --path")
	},
}

var terminateCommand = &cli.Command{
	Name:  "terminate",
	Usage: "终止应用",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "bundle-id", Aliases: []string{"b"}, Required: true, Usage: "应用 bundle id"},
		&cli.BoolFlag{Name: "force", Usage: "强制结束进程"},
	},
	Action: func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.Close()

		id := c.String("bundle-id")
		if c.Bool("force") {
			apps, err := s.RunningApps()
			if err != nil {
				return err
			}
			killed := 0
			for _, app := range apps {
				if app.BundleID != id {
					continue
				}
				if err := s.Processes.Kill(app.PID); err != nil {
					return err
				}
				killed++
			}
			fmt.Fprintf(c.App.Writer, "已结束 %d 个进程\n", killed)
			return nil
		}

		ok, err := s.TerminateAppByBundleID(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: 没有运行中的 %s", ax.ErrNotFound, id)
		}
		return nil
	},
}

var menuCommand = &cli.Command{
	Name:      "menu",
	Usage:     "按路径点击菜单项",
	ArgsUsage: "<菜单> <菜单项>... (#N 表示下标)",
	Flags:     append([]cli.Flag{}, targetFlags...),
	Action: func(c *cli.Context) error {
		path, err := parseMenuPath(c.Args().Slice())
		if err != nil {
			return err
		}
		if len(path) == 0 {
			return fmt.Errorf("需要指定菜单路径")
		}
		return withTrustedSession(c, func(s *session.Session) error {
			app, err := resolveApp(c, s)
			if err != nil {
				return err
			}
			item, err := app.MenuItem(path...)
			if err != nil {
				return err
			}
			return item.PerformAction("Press")
		})
	},
}

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "查看或保存配置",
	Subcommands: []*cli.Command{
		{
			Name:  "show",
			Usage: "打印生效的配置",
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("序列化配置失败: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "# %s\n%s", configManager(c).GetConfigFile(), data)
				return nil
			},
		},
		{
			Name:  "save",
			Usage: "将生效的配置写入配置文件",
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				m := configManager(c)
				if err := m.Save(cfg); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "配置已保存到 %s\n", m.GetConfigFile())
				return nil
			},
		},
	},
}
