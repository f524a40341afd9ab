package kubesecret_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-home-agent/internal/application"
	"smart-home-agent/internal/infra/kubesecret"
)

const secretJSON = `{
  "apiVersion": "v1",
  "kind": "Secret",
  "metadata": {"name": "homebridge-credentials", "namespace": "default"},
  "type": "Opaque",
  "data": {"username": "YWRtaW4=", "password": "czNjcjN0"}
}`

func TestDecode(t *testing.T) {
	creds, err := kubesecret.Decode([]byte(secretJSON))
	require.NoError(t, err)
	assert.Equal(t, application.Credentials{Username: "admin", Password: "s3cr3t"}, creds)
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]string{
		"not json":         `error: secrets "homebridge-credentials" not found`,
		"missing username": `{"data": {"password": "czNjcjN0"}}`,
		"missing password": `{"data": {"username": "YWRtaW4="}}`,
		"bad base64":       `{"data": {"username": "!!!", "password": "czNjcjN0"}}`,
	}

	for name, output := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := kubesecret.Decode([]byte(output))
			assert.Error(t, err)
		})
	}
}

// fakeKubectl writes a shell script that records its arguments and prints out.
func fakeKubectl(t *testing.T, out string, exitCode int) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	outFile := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(outFile, []byte(out), 0o600))

	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\ncat " + outFile + "\nexit " + strconv.Itoa(exitCode) + "\n"
	path := filepath.Join(dir, "kubectl")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, argsFile
}

func TestProvider_Credentials(t *testing.T) {
	path, argsFile := fakeKubectl(t, secretJSON, 0)

	p := kubesecret.Provider{
		Exec:       path,
		Kubeconfig: "/home/me/.kube/config-home",
		Secret:     "homebridge-credentials",
		Namespace:  "default",
	}

	creds, err := p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.Username)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t,
		"--kubeconfig=/home/me/.kube/config-home get secret homebridge-credentials -n default -o json\n",
		string(args),
	)
}

func TestProvider_CommandFails(t *testing.T) {
	path, _ := fakeKubectl(t, "", 1)

	p := kubesecret.Provider{Exec: path, Secret: "homebridge-credentials", Namespace: "default"}
	_, err := p.Credentials(context.Background())
	assert.Error(t, err)
}

func TestProvider_MissingBinary(t *testing.T) {
	p := kubesecret.Provider{Exec: filepath.Join(t.TempDir(), "no-such-kubectl"), Secret: "s", Namespace: "n"}
	_, err := p.Credentials(context.Background())
	assert.Error(t, err)
}
