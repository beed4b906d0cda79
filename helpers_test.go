package notation_test

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

func jsonRoundTrip[T any](v T) (T, error) {
	var ret T
	b, err := json.Marshal(v)
	if err != nil {
		return ret, err
	}
	err = json.Unmarshal(b, &ret)
	return ret, err
}

func yamlRoundTrip[T any](v T) (T, error) {
	var ret T
	b, err := yaml.Marshal(v)
	if err != nil {
		return ret, err
	}
	err = yaml.Unmarshal(b, &ret)
	return ret, err
}
