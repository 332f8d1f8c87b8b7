//go:build !darwin

package process

import (
	"fmt"

	"github.com/go-vgo/robotgo"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

// 非 macOS 平台没有 bundle id，按进程名列出

func runningApps() ([]ax.AppProcess, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	apps := make([]ax.AppProcess, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		apps = append(apps, ax.AppProcess{PID: int(p.Pid), LocalizedName: name})
	}
	return apps, nil
}

func activateApp(pid int) error {
	return robotgo.ActivePid(pid)
}

func terminateApp(pid int) bool {
	return robotgo.Kill(pid) == nil
}

func frontmostPID() (int, error) {
	return 0, fmt.Errorf("当前平台不支持获取前台应用")
}
