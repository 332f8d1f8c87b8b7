//go:build darwin

package process

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

typedef struct {
    int pid;
    char bundleID[256];
    char name[256];
} AppInfoC;

static void copyString(char* dst, size_t size, NSString* s) {
    dst[0] = '\0';
    if (s != nil) {
        strlcpy(dst, [s UTF8String], size);
    }
}

// 只列出常规应用 (有 Dock 图标)
static int listRunningApps(AppInfoC* apps, int maxCount) {
    @autoreleasepool {
        NSArray* running = [[NSWorkspace sharedWorkspace] runningApplications];
        int n = 0;
        for (NSRunningApplication* app in running) {
            if (n >= maxCount) {
                break;
            }
            if ([app activationPolicy] != NSApplicationActivationPolicyRegular) {
                continue;
            }
            apps[n].pid = [app processIdentifier];
            copyString(apps[n].bundleID, sizeof(apps[n].bundleID), [app bundleIdentifier]);
            copyString(apps[n].name, sizeof(apps[n].name), [app localizedName]);
            n++;
        }
        return n;
    }
}

static int activateAppByPID(int pid) {
    @autoreleasepool {
        NSRunningApplication* app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
        if (app == nil) {
            return 0;
        }
        return [app activateWithOptions:NSApplicationActivateAllWindows] ? 1 : 0;
    }
}

static int terminateAppByPID(int pid) {
    @autoreleasepool {
        NSRunningApplication* app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
        if (app == nil) {
            return 0;
        }
        return [app terminate] ? 1 : 0;
    }
}

static int frontmostAppPID(void) {
    @autoreleasepool {
        NSRunningApplication* app = [[NSWorkspace sharedWorkspace] frontmostApplication];
        if (app == nil) {
            return -1;
        }
        return [app processIdentifier];
    }
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/zoeyai/zoeyax/pkg/ax"
)

const maxApps = 512

func runningApps() ([]ax.AppProcess, error) {
	buf := make([]C.AppInfoC, maxApps)
	n := int(C.listRunningApps((*C.AppInfoC)(unsafe.Pointer(&buf[0])), C.int(maxApps)))

	apps := make([]ax.AppProcess, 0, n)
	for i := 0; i < n; i++ {
		apps = append(apps, ax.AppProcess{
			PID:           int(buf[i].pid),
			BundleID:      C.GoString(&buf[i].bundleID[0]),
			LocalizedName: C.GoString(&buf[i].name[0]),
		})
	}
	return apps, nil
}

func activateApp(pid int) error {
	if C.activateAppByPID(C.int(pid)) == 0 {
		return fmt.Errorf("应用不存在或无法激活")
	}
	return nil
}

func terminateApp(pid int) bool {
	return C.terminateAppByPID(C.int(pid)) != 0
}

func frontmostPID() (int, error) {
	pid := int(C.frontmostAppPID())
	if pid < 0 {
		return 0, fmt.Errorf("没有前台应用")
	}
	return pid, nil
}
