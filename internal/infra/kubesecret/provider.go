package kubesecret

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"smart-home-agent/internal/application"
)

// Provider reads hub credentials from a Kubernetes secret through kubectl.
// The secret's data must hold base64 "username" and "password" keys.
type Provider struct {
	Exec       string
	Kubeconfig string
	Secret     string
	Namespace  string
	Logger     *slog.Logger
}

func (p Provider) Name() string {
	return "kubernetes secret " + p.Namespace + "/" + p.Secret
}

func (p Provider) args() []string {
	var args []string
	if p.Kubeconfig != "" {
		args = append(args, "--kubeconfig="+p.Kubeconfig)
	}
	return append(args, "get", "secret", p.Secret, "-n", p.Namespace, "-o", "json")
}

func (p Provider) Credentials(ctx context.Context) (application.Credentials, error) {
	execName := p.Exec
	if execName == "" {
		execName = "kubectl"
	}

	if p.Logger != nil {
		p.Logger.Info("loading credentials from kubernetes secret", "secret", p.Secret, "namespace", p.Namespace)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, execName, p.args()...)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return application.Credentials{}, fmt.Errorf("%s: %w: %s", execName, err, strings.TrimSpace(stderr.String()))
	}

	return Decode(output)
}

type secret struct {
	Data map[string]string `json:"data"`
}

// Decode extracts credentials from `kubectl get secret -o json` output.
func Decode(output []byte) (application.Credentials, error) {
	var s secret
	if err := json.Unmarshal(output, &s); err != nil {
		return application.Credentials{}, fmt.Errorf("parsing kubectl output: %w", err)
	}

	username, err := field(s.Data, "username")
	if err != nil {
		return application.Credentials{}, err
	}
	password, err := field(s.Data, "password")
	if err != nil {
		return application.Credentials{}, err
	}

	return application.Credentials{Username: username, Password: password}, nil
}

func field(data map[string]string, key string) (string, error) {
	encoded, ok := data[key]
	if !ok {
		return "", fmt.Errorf("%s not found in secret", key)
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", key, err)
	}
	return string(decoded), nil
}
