package brc420

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContent(t *testing.T) {
	t.Run("json object decodes as structured", func(t *testing.T) {
		content := DecodeContent([]byte(`{"p":"brc-420","op":"deploy","id":"abci0","name":"x","max":100,"price":"0.001"}`), "application/json")
		require.Equal(t, ContentKindStructured, content.Kind)
		require.NotNil(t, content.Structured)
		assert.Equal(t, "brc-420", content.Structured.Protocol)
		assert.Equal(t, "deploy", content.Structured.Op)
		assert.Equal(t, "100", string(content.Structured.Max))
		assert.Equal(t, "0.001", string(content.Structured.Price))
	})

	t.Run("json string unwraps to plain text", func(t *testing.T) {
		content := DecodeContent([]byte(`"123.bitmap"`), "text/plain")
		require.Equal(t, ContentKindPlainText, content.Kind)
		assert.Equal(t, "123.bitmap", content.Text)
	})

	t.Run("bare text stays plain text", func(t *testing.T) {
		content := DecodeContent([]byte("  123.bitmap \n"), "text/plain")
		require.Equal(t, ContentKindPlainText, content.Kind)
		assert.Equal(t, "123.bitmap", content.Text)
	})

	t.Run("invalid json object falls back to plain text", func(t *testing.T) {
		content := DecodeContent([]byte("{not json"), "text/plain")
		assert.Equal(t, ContentKindPlainText, content.Kind)
	})

	t.Run("non-utf8 payload is binary", func(t *testing.T) {
		content := DecodeContent([]byte{0xff, 0xfe, 0x00, 0x80}, "image/png")
		assert.Equal(t, ContentKindBinary, content.Kind)
		assert.Equal(t, "image/png", content.ContentType)
	})
}

func TestClassify(t *testing.T) {
	structured := func(raw string) Content {
		return DecodeContent([]byte(raw), "application/json")
	}
	plain := func(text string) Content {
		return DecodeContent([]byte(text), "text/plain")
	}

	t.Run("deploy", func(t *testing.T) {
		claim := Classify(structured(`{"p":"brc-420","op":"deploy","id":"srci0","name":"thing","max":"21","price":"0.0001"}`))
		require.IsType(t, DeployClaim{}, claim)
		deploy := claim.(DeployClaim)
		assert.Equal(t, "srci0", deploy.SourceId)
		assert.Equal(t, "thing", deploy.Name)
		assert.Equal(t, "21", deploy.Max)
		assert.Equal(t, "0.0001", deploy.Price)
	})

	t.Run("mint", func(t *testing.T) {
		claim := Classify(structured(`{"p":"brc-420","op":"mint","id":"srci0"}`))
		require.IsType(t, MintClaim{}, claim)
		mint := claim.(MintClaim)
		assert.Equal(t, "srci0", mint.DeploySourceId)
		assert.False(t, mint.Legacy)
	})

	t.Run("legacy mint path", func(t *testing.T) {
		claim := Classify(plain("/content/srci0"))
		require.IsType(t, MintClaim{}, claim)
		mint := claim.(MintClaim)
		assert.Equal(t, "srci0", mint.DeploySourceId)
		assert.True(t, mint.Legacy)
	})

	t.Run("legacy mint path with trailing segment", func(t *testing.T) {
		claim := Classify(plain("/content/srci0/extra"))
		require.IsType(t, MintClaim{}, claim)
		assert.Equal(t, "srci0", claim.(MintClaim).DeploySourceId)
	})

	t.Run("empty legacy mint path is skipped", func(t *testing.T) {
		assert.Nil(t, Classify(plain("/content/")))
	})

	t.Run("bitmap", func(t *testing.T) {
		claim := Classify(plain("839410.bitmap"))
		require.IsType(t, BitmapClaim{}, claim)
		bitmap := claim.(BitmapClaim)
		assert.Equal(t, int64(839410), bitmap.Number)
		assert.Equal(t, "839410.bitmap", bitmap.Content)
	})

	t.Run("parcel wins over bitmap for three-part form", func(t *testing.T) {
		claim := Classify(plain("5.839410.bitmap"))
		require.IsType(t, ParcelClaim{}, claim)
		parcel := claim.(ParcelClaim)
		assert.Equal(t, int64(5), parcel.ParcelNumber)
		assert.Equal(t, int64(839410), parcel.BitmapNumber)
	})

	t.Run("wrong protocol tag is skipped", func(t *testing.T) {
		assert.Nil(t, Classify(structured(`{"p":"brc-20","op":"deploy","id":"x"}`)))
	})

	t.Run("unknown op is skipped", func(t *testing.T) {
		assert.Nil(t, Classify(structured(`{"p":"brc-420","op":"burn","id":"x"}`)))
	})

	t.Run("signed bitmap number is skipped", func(t *testing.T) {
		assert.Nil(t, Classify(plain("-5.bitmap")))
		assert.Nil(t, Classify(plain("+5.bitmap")))
	})

	t.Run("non-numeric bitmap is skipped", func(t *testing.T) {
		assert.Nil(t, Classify(plain("abc.bitmap")))
	})

	t.Run("four-part bitmap form is skipped", func(t *testing.T) {
		assert.Nil(t, Classify(plain("1.2.3.bitmap")))
	})

	t.Run("binary content is skipped", func(t *testing.T) {
		assert.Nil(t, Classify(DecodeContent([]byte{0xff, 0x80}, "application/octet-stream")))
	})
}
