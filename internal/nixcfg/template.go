package nixcfg

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/nixstrap/nixstrap/internal/params"
)

// configTemplate is the built-in system configuration used when the
// operator supplies no repository or archive source. Every interpolated
// value is Nix-escaped before rendering.
const configTemplate = `{ config, pkgs, ... }:

{
  imports = [
    ./hardware-configuration.nix
  ];

  boot.loader.systemd-boot.enable = true;
  boot.loader.efi.canTouchEfiVariables = true;

  networking.hostName = "{{.Hostname}}";
  networking.networkmanager.enable = true;
  networking.firewall.enable = true;
  networking.firewall.allowedTCPPorts = [ 22 ];

  time.timeZone = "{{.Timezone}}";
  i18n.defaultLocale = "{{.Locale}}";

  swapDevices = [
    { device = "/swapfile"; size = {{.SwapMB}}; }
  ];

  users.users.{{.Username}} = {
    isNormalUser = true;
    extraGroups = [ "wheel" "networkmanager" ];
    hashedPassword = "{{.PasswordHash}}";
{{- if .SSHKey}}
    openssh.authorizedKeys.keys = [
      "{{.SSHKey}}"
    ];
{{- end}}
  };

  services.openssh.enable = true;
  security.sudo.wheelNeedsPassword = true;
{{- if .DotfilesURL}}

  systemd.services.dotfiles-clone = {
    description = "Clone the operator dotfiles repository once";
    wantedBy = [ "multi-user.target" ];
    wants = [ "network-online.target" ];
    after = [ "network-online.target" ];
    path = [ pkgs.git ];
    serviceConfig = {
      Type = "oneshot";
      RemainAfterExit = true;
      User = "{{.Username}}";
    };
    script = ''
      target=/home/{{.Username}}/dotfiles
      if [ -d "$target" ]; then
        echo "dotfiles already exists, skipping clone"
        exit 0
      fi
      git clone "{{.DotfilesURL}}" "$target"
    '';
  };
{{- end}}

  system.stateVersion = "24.05";
}
`

// templateData carries pre-escaped values into the template.
type templateData struct {
	Hostname     string
	Username     string
	PasswordHash string
	Timezone     string
	Locale       string
	SwapMB       int
	SSHKey       string
	DotfilesURL  string
}

// RenderTemplate renders the built-in configuration for the parameter
// set. The username must already be validated; it appears as a bare Nix
// attribute name and cannot be quoted away.
func RenderTemplate(p params.InstallParams) (string, error) {
	tmpl, err := template.New("configuration.nix").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	data := templateData{
		Hostname:     EscapeNixString(p.Hostname),
		Username:     p.Username,
		PasswordHash: EscapeNixString(p.PasswordHash),
		Timezone:     EscapeNixString(p.Timezone),
		Locale:       EscapeNixString(p.Locale),
		SwapMB:       p.SwapMB,
		SSHKey:       EscapeNixString(p.SSHKey),
		DotfilesURL:  p.DotfilesURL,
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return b.String(), nil
}

// EscapeNixString escapes special characters for Nix string literals
func EscapeNixString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `$`, `\$`)
	return s
}
