package suite

const systemdDir = "/etc/systemd/system"

// Default returns the production tables for the LXC AutoScale family.
//
// Group declaration order is load-bearing: it fixes fingerprint bit
// positions and breaks ties when composing cleanup actions for composite
// fingerprints. Do not reorder within a release.
func Default() *Suite {
	return &Suite{
		Groups: []VersionGroup{
			{
				Name:     "conf-v1",
				Markers:  []string{"/etc/lxc_autoscale/lxc_autoscale.conf"},
				Files:    []string{"/etc/lxc_autoscale/lxc_autoscale.conf"},
				Services: []string{"lxc_autoscale.service"},
				Units:    []string{systemdDir + "/lxc_autoscale.service"},
			},
			{
				Name:     "yaml-v2",
				Markers:  []string{"/etc/lxc_autoscale/lxc_autoscale.yaml"},
				Files:    []string{"/etc/lxc_autoscale/lxc_autoscale.yaml"},
				Services: []string{"lxc_autoscale.service"},
				Units:    []string{systemdDir + "/lxc_autoscale.service"},
			},
			{
				Name:    "ml-suite",
				Markers: []string{"/etc/lxc_autoscale_ml"},
				Files: []string{
					"/etc/lxc_autoscale_ml/lxc_autoscale_ml.yaml",
					"/etc/lxc_autoscale_ml/lxc_monitor.yaml",
					"/etc/lxc_autoscale_ml/lxc_autoscale_api.yaml",
				},
				Services: []string{
					"lxc_autoscale_api.service",
					"lxc_monitor.service",
					"lxc_autoscale_ml.service",
				},
				Units: []string{
					systemdDir + "/lxc_autoscale_api.service",
					systemdDir + "/lxc_monitor.service",
					systemdDir + "/lxc_autoscale_ml.service",
				},
			},
		},
		Variants: []Variant{
			{
				Key:         "autoscale",
				Name:        "LXC AutoScale",
				Description: "Lightweight autoscaling daemon",
				Dirs: []string{
					"/etc/lxc_autoscale",
					"/usr/local/bin/lxc_autoscale",
				},
				Manifest: []ManifestEntry{
					{Source: "lxc_autoscale/lxc_autoscale.py", Dest: "/usr/local/bin/lxc_autoscale/lxc_autoscale.py", Mode: 0o755},
					{Source: "lxc_autoscale/lxc_utils.py", Dest: "/usr/local/bin/lxc_autoscale/lxc_utils.py", Mode: 0o644},
					{Source: "lxc_autoscale/config.py", Dest: "/usr/local/bin/lxc_autoscale/config.py", Mode: 0o644},
					{Source: "lxc_autoscale/scaling_manager.py", Dest: "/usr/local/bin/lxc_autoscale/scaling_manager.py", Mode: 0o644},
					{Source: "lxc_autoscale/notification.py", Dest: "/usr/local/bin/lxc_autoscale/notification.py", Mode: 0o644},
					{Source: "lxc_autoscale/lxc_autoscale.yaml", Dest: "/etc/lxc_autoscale/lxc_autoscale.yaml", Mode: 0o644},
					{Source: "lxc_autoscale/lxc_autoscale.service", Dest: systemdDir + "/lxc_autoscale.service", Mode: 0o644},
				},
				Units: []string{"lxc_autoscale.service"},
			},
			{
				Key:         "autoscale-ml",
				Name:        "LXC AutoScale ML",
				Description: "Autoscaling with API, monitor, and ML model",
				Dirs: []string{
					"/etc/lxc_autoscale_ml",
					"/usr/local/bin/lxc_autoscale_ml",
				},
				Manifest: []ManifestEntry{
					{Source: "lxc_autoscale_ml/lxc_autoscale_ml.py", Dest: "/usr/local/bin/lxc_autoscale_ml/lxc_autoscale_ml.py", Mode: 0o755},
					{Source: "lxc_autoscale_ml/lxc_model.py", Dest: "/usr/local/bin/lxc_autoscale_ml/lxc_model.py", Mode: 0o644},
					{Source: "lxc_monitor/lxc_monitor.py", Dest: "/usr/local/bin/lxc_autoscale_ml/lxc_monitor.py", Mode: 0o755},
					{Source: "lxc_autoscale_api/lxc_autoscale_api.py", Dest: "/usr/local/bin/lxc_autoscale_ml/lxc_autoscale_api.py", Mode: 0o755},
					{Source: "lxc_autoscale_ml/lxc_autoscale_ml.yaml", Dest: "/etc/lxc_autoscale_ml/lxc_autoscale_ml.yaml", Mode: 0o644},
					{Source: "lxc_monitor/lxc_monitor.yaml", Dest: "/etc/lxc_autoscale_ml/lxc_monitor.yaml", Mode: 0o644},
					{Source: "lxc_autoscale_api/lxc_autoscale_api.yaml", Dest: "/etc/lxc_autoscale_ml/lxc_autoscale_api.yaml", Mode: 0o644},
					{Source: "lxc_autoscale_ml/lxc_autoscale_ml.service", Dest: systemdDir + "/lxc_autoscale_ml.service", Mode: 0o644},
					{Source: "lxc_monitor/lxc_monitor.service", Dest: systemdDir + "/lxc_monitor.service", Mode: 0o644},
					{Source: "lxc_autoscale_api/lxc_autoscale_api.service", Dest: systemdDir + "/lxc_autoscale_api.service", Mode: 0o644},
				},
				Units: []string{
					"lxc_autoscale_api.service",
					"lxc_monitor.service",
					"lxc_autoscale_ml.service",
				},
			},
		},
	}
}
