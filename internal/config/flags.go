package config

import (
	"flag"
	"strconv"
	"strings"
)

// NetAddress адрес вида host:port для флага -a.
type NetAddress struct {
	Host string
	Port int
	set  bool
}

func (a NetAddress) String() string {
	return a.Host + ":" + strconv.Itoa(a.Port)
}

func (a *NetAddress) Set(s string) error {
	hp := strings.Split(s, ":")
	a.Host = hp[0]
	if len(hp) == 2 {
		port, err := strconv.Atoi(hp[1])
		if err != nil {
			return err
		}
		a.Port = port
	} else {
		a.Port = 8080
	}
	a.set = true
	return nil
}

// IsSet сообщает, был ли адрес передан явно.
func (a *NetAddress) IsSet() bool {
	return a != nil && a.set
}

// Apply перекрывает адрес сервера, если флаг был передан.
func (a *NetAddress) Apply(s *ServerConfig) {
	if !a.IsSet() {
		return
	}
	s.Host = a.Host
	s.Port = a.Port
}

// ParseFlags разбирает флаги командной строки: адрес сервера и путь к конфигу.
func ParseFlags(fs *flag.FlagSet, args []string) (*NetAddress, string, error) {
	addr := &NetAddress{Host: "localhost", Port: 8080}
	fs.Var(addr, "a", "Net address host:port")
	configPath := fs.String("config", "", "Path to YAML config (overrides CONFIG_PATH)")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	return addr, *configPath, nil
}
