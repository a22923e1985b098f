// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"errors"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/poiesic/bracee/core"
)

// Field serializers, composed by hand from mus-go primitives.
// Vectors use raw encoding (4 bytes per element) rather than varint:
// embedding components are dense floats and gain nothing from
// variable-length encoding.
var (
	vectorSer     = ord.NewSliceSer[float32](raw.Float32)
	stringListSer = ord.NewSliceSer[string](ord.String)
	metadataSer   = ord.NewMapSer[string, string](ord.String, ord.String)
)

// decodeErr classifies a mus-go unmarshal failure. Data that ran out before
// the declared field length is truncation; everything else is corruption.
func decodeErr(err error) error {
	if errors.Is(err, mus.ErrTooSmallByteSlice) {
		return errors.Join(ErrSerializationFailed, ErrTruncatedData, err)
	}
	return errors.Join(ErrSerializationFailed, err)
}

// MarshalItem serializes an Item to bytes.
func MarshalItem(item *Item) []byte {
	size := ord.String.Size(item.ID) +
		vectorSer.Size(item.Vector) +
		metadataSer.Size(item.Metadata)
	buf := make([]byte, size)
	n := ord.String.Marshal(item.ID, buf)
	n += vectorSer.Marshal(item.Vector, buf[n:])
	metadataSer.Marshal(item.Metadata, buf[n:])
	return buf
}

// UnmarshalItem deserializes an Item from bytes.
func UnmarshalItem(data []byte) (*Item, error) {
	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, decodeErr(err)
	}
	vector, m, err := vectorSer.Unmarshal(data[n:])
	if err != nil {
		return nil, decodeErr(err)
	}
	n += m
	metadata, _, err := metadataSer.Unmarshal(data[n:])
	if err != nil {
		return nil, decodeErr(err)
	}
	return &Item{ID: id, Vector: vector, Metadata: metadata}, nil
}

// MarshalProfile serializes a Profile to bytes.
func MarshalProfile(profile *core.Profile) []byte {
	size := ord.String.Size(profile.ID) +
		ord.String.Size(profile.Name) +
		ord.String.Size(profile.Headline) +
		ord.String.Size(profile.Location) +
		ord.String.Size(profile.CurrentRole) +
		stringListSer.Size(profile.Education) +
		stringListSer.Size(profile.Companies)
	buf := make([]byte, size)
	n := ord.String.Marshal(profile.ID, buf)
	n += ord.String.Marshal(profile.Name, buf[n:])
	n += ord.String.Marshal(profile.Headline, buf[n:])
	n += ord.String.Marshal(profile.Location, buf[n:])
	n += ord.String.Marshal(profile.CurrentRole, buf[n:])
	n += stringListSer.Marshal(profile.Education, buf[n:])
	stringListSer.Marshal(profile.Companies, buf[n:])
	return buf
}

// UnmarshalProfile deserializes a Profile from bytes.
func UnmarshalProfile(data []byte) (*core.Profile, error) {
	var (
		profile core.Profile
		n       int
	)
	fields := []struct {
		dst *string
	}{
		{&profile.ID},
		{&profile.Name},
		{&profile.Headline},
		{&profile.Location},
		{&profile.CurrentRole},
	}
	for _, f := range fields {
		v, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, decodeErr(err)
		}
		*f.dst = v
		n += m
	}
	education, m, err := stringListSer.Unmarshal(data[n:])
	if err != nil {
		return nil, decodeErr(err)
	}
	n += m
	companies, _, err := stringListSer.Unmarshal(data[n:])
	if err != nil {
		return nil, decodeErr(err)
	}
	profile.Education = education
	profile.Companies = companies
	return &profile, nil
}
