package generators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/hasura/data-generator-sub003/internal/domain"
)

var fakerKinds = map[string]func(gctx *Context) string{
	"name":       func(*Context) string { return faker.Name() },
	"first_name": func(*Context) string { return faker.FirstName() },
	"last_name":  func(*Context) string { return faker.LastName() },
	"email":      func(*Context) string { return faker.Email() },
	"phone":      func(*Context) string { return faker.Phonenumber() },
	"username":   func(*Context) string { return faker.Username() },
	"url":        func(*Context) string { return faker.URL() },
	"domain":     func(*Context) string { return faker.DomainName() },
	"word":       func(*Context) string { return faker.Word() },
	"sentence":   func(*Context) string { return faker.Sentence() },
	"paragraph":  func(*Context) string { return faker.Paragraph() },
	"city":       fakeCity,
	"hostname":   fakeHostname,
}

// FakerGenerator produces free text and personal data. The kind param selects
// the flavour; see fakerKinds.
type FakerGenerator struct{}

func (g *FakerGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *FakerGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	kind := "name"
	if spec.Params != nil {
		k, err := optionalString(spec.Params, "kind", "name")
		if err != nil {
			return nil, err
		}
		kind = k
	}
	fn, ok := fakerKinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown faker kind %q (known: %s)", kind, strings.Join(FakerKinds(), ", "))
	}
	lowercase, err := boolParam(spec.Params, "lowercase")
	if err != nil {
		return nil, err
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		v := fn(gctx)
		if lowercase {
			v = strings.ToLower(v)
		}
		return v, nil
	}, nil
}

func FakerKinds() []string {
	kinds := make([]string, 0, len(fakerKinds))
	for k := range fakerKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

var cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
	"Austin", "Jacksonville", "Fort Worth", "Columbus", "Charlotte",
	"San Francisco", "Indianapolis", "Seattle", "Denver", "Washington",
	"Boston", "Nashville", "Detroit", "Portland", "Las Vegas",
	"Omaha", "Minneapolis", "Tampa", "Raleigh", "Salt Lake City",
}

func fakeCity(gctx *Context) string {
	return cities[gctx.Rand.Intn(len(cities))]
}

func fakeHostname(gctx *Context) string {
	roles := []string{"app", "db", "web", "api", "batch", "vault", "ldap", "mq", "cache", "core"}
	envs := []string{"prd", "stg", "dev", "dr"}
	sites := []string{"use1", "usw2", "dc1", "dc2", "euc1"}

	return fmt.Sprintf("%s-%s-%s-%02d",
		roles[gctx.Rand.Intn(len(roles))],
		envs[gctx.Rand.Intn(len(envs))],
		sites[gctx.Rand.Intn(len(sites))],
		gctx.Rand.Intn(40)+1,
	)
}
