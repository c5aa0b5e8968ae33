package hawk

import (
	"fmt"
	"net/url"
	"time"
)

// A client signs a request, the server verifies it, answers with a
// Server-Authorization header, and the client verifies that reply in
// turn. Both ends hold the same Credentials.
func Example() {
	creds := &Credentials{ID: "dh37fgj492je", Key: []byte("werxhqb98rpaxn39848xrunpaw3489ruxnpa98w4rxn"), Algorithm: SHA256}
	clock := fixedClock(1353832234000)

	client := &Client{Clock: clock}
	uri, _ := url.Parse("http://example.com:8000/resource/1?b=1&a=2")
	request, err := client.Header(uri, "GET", creds, &HeaderOptions{Ext: "some-app-ext-data"})
	if err != nil {
		fmt.Println(err)
		return
	}

	server := &Server{
		Resolver: CredentialResolverFunc(func(id string, _ interface{}) (*Credentials, error) {
			return creds, nil
		}),
		Clock: clock,
	}
	view := &RequestView{Method: "GET", URL: "/resource/1?b=1&a=2", Host: "example.com", Port: 8000,
		Authorization: request.Header}
	result, err := server.Authenticate(view, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("server accepted:", result.Artifacts.Ext)

	reply, err := server.Header(result, &ServerHeaderOptions{Ext: "pong"})
	if err != nil {
		fmt.Println(err)
		return
	}
	headers := map[string][]string{"Server-Authorization": {reply}}
	if _, err = client.Authenticate(headers, creds, request.Artifacts, nil); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("client accepted the reply")
	// Output:
	// server accepted: some-app-ext-data
	// client accepted the reply
}

// A bewit lets a URL authenticate itself for a while, with no header.
func ExampleClient_GetBewit() {
	creds := &Credentials{ID: "123456", Key: []byte("2983d45yun89q"), Algorithm: SHA256}
	client := &Client{Clock: fixedClock(1356420407000)}

	uri, _ := url.Parse("https://example.com/somewhere/over/the/rainbow")
	result, err := client.GetBewit(uri, creds, 300*time.Second, &BewitOptions{Ext: "xandyandz"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result.Bewit)
	// Output:
	// MTIzNDU2XDEzNTY0MjA3MDdca3NjeHdOUjJ0SnBQMVQxekRMTlBiQjVVaUtJVTl0T1NKWFRVZEc3WDloOD1ceGFuZHlhbmR6
}
