package generators

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

// SubnetGenerator emits CIDR blocks inside base. With probability reuse it
// returns a subnet already emitted by the same rule earlier in the run, so
// hosts cluster into shared networks.
type SubnetGenerator struct{}

func (g *SubnetGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *SubnetGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	params := spec.Params
	if params == nil {
		params = map[string]interface{}{}
	}
	baseStr, err := optionalString(params, "base", "10.0.0.0/8")
	if err != nil {
		return nil, err
	}
	base, err := netip.ParsePrefix(baseStr)
	if err != nil {
		return nil, fmt.Errorf("invalid 'base': %w", err)
	}
	if !base.Addr().Is4() {
		return nil, errors.New("'base' must be an IPv4 prefix")
	}
	base = base.Masked()

	prefixLen, err := numberParam(params, "prefix_len", 24)
	if err != nil {
		return nil, err
	}
	bits := int(prefixLen)
	if bits < base.Bits() || bits > 32 {
		return nil, fmt.Errorf("'prefix_len' must be between %d and 32", base.Bits())
	}
	reuse, err := numberParam(params, "reuse", 0.6)
	if err != nil {
		return nil, err
	}
	if reuse < 0 || reuse > 1 {
		return nil, errors.New("'reuse' must be between 0 and 1")
	}
	name, err := optionalString(params, "history", "subnet:"+base.String()+fmt.Sprintf("/%d", bits))
	if err != nil {
		return nil, err
	}

	baseAddr := base.Addr().As4()
	baseU := uint32(baseAddr[0])<<24 | uint32(baseAddr[1])<<16 | uint32(baseAddr[2])<<8 | uint32(baseAddr[3])
	subnets := uint64(1) << uint(bits-base.Bits())

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		h := gctx.State.History(name, 256)
		if h.Len() > 0 && gctx.Rand.Float64() < reuse {
			v, _ := h.Pick(gctx.Rand)
			return v, nil
		}

		idx := uint32(gctx.Rand.Int63n(int64(subnets)))
		u := baseU | idx<<uint(32-bits)
		addr := netip.AddrFrom4([4]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
		cidr := netip.PrefixFrom(addr, bits).String()
		h.Add(cidr)
		return cidr, nil
	}, nil
}

var wellKnownPorts = []interface{}{
	22, 25, 53, 80, 110, 143, 443, 465, 587, 636, 993, 1433, 1521,
	3306, 3389, 5432, 5672, 6379, 8080, 8443, 9092, 9200, 27017,
}

// PortGenerator favours popular service ports: with probability bias it
// returns one of popular, otherwise a uniform port in [min, max].
type PortGenerator struct{}

func (g *PortGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *PortGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	params := spec.Params
	if params == nil {
		params = map[string]interface{}{}
	}
	popular := wellKnownPorts
	if _, ok := params["popular"]; ok {
		list, err := listParam(params, "popular")
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			if !isNumber(p) || toInt64(p) < 1 || toInt64(p) > 65535 {
				return nil, fmt.Errorf("popular port %v out of range", p)
			}
		}
		popular = list
	}
	bias, err := numberParam(params, "bias", 0.8)
	if err != nil {
		return nil, err
	}
	if bias < 0 || bias > 1 {
		return nil, errors.New("'bias' must be between 0 and 1")
	}
	minF, err := numberParam(params, "min", 1024)
	if err != nil {
		return nil, err
	}
	maxF, err := numberParam(params, "max", 65535)
	if err != nil {
		return nil, err
	}
	min, max := int64(minF), int64(maxF)
	if min < 1 || max > 65535 || max < min {
		return nil, fmt.Errorf("port range [%d, %d] is invalid", min, max)
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		if gctx.Rand.Float64() < bias {
			return toInt64(popular[gctx.Rand.Intn(len(popular))]), nil
		}
		return min + gctx.Rand.Int63n(max-min+1), nil
	}, nil
}
