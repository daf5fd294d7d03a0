//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
)

// sourceFiles is a small decompiled-looking tree
var sourceFiles = map[string]string{
	"com/example/MainActivity.java": `package com.example;

public class MainActivity extends Activity {
    protected void onCreate(Bundle state) {
        super.onCreate(state);
        startService(new Intent(this, SyncService.class));
    }
}
`,
	"com/example/SyncService.java": `package com.example;

public class SyncService extends Service {
    public void onDestroy() {}
}
`,
	"res/values/strings.xml": `<resources>
    <string name="app_name">Example</string>
</resources>
`,
}

// CreateSourceTree writes the fixture tree into the workspace and returns its root
func (tf *TUITestFramework) CreateSourceTree() (string, error) {
	root := tf.Path("src")
	for rel, content := range sourceFiles {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", err
		}
	}
	return root, nil
}
